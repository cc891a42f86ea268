package beans_test

import (
	"fmt"
	"net/netip"
	"testing"
	"time"

	"github.com/0xalexb/hjarta-beans/beans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type staticResolver map[string]any

func (r staticResolver) ResolveDirective(directive beans.Directive) (any, error) {
	value, ok := r[directive.Raw]
	if !ok {
		return nil, fmt.Errorf("%w: %s", beans.ErrBeanNotFound, directive.Target)
	}

	return value, nil
}

func bind(t *testing.T, binder *beans.Binder, target any, key, value string) error {
	t.Helper()

	path, err := beans.ParsePath(key)
	require.NoError(t, err)

	return binder.Bind(target, path, value)
}

func TestBinder_Bind(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)
	settings := &Settings{}

	assignments := map[string]string{
		"enabled":                    "true",
		"ratio":                      "0.25",
		"retries":                    "0x0f",
		"timeout":                    "1m30s",
		"tags":                       "red, green ,blue",
		"ports":                      "80,443",
		"fixed[1]":                   "second",
		"addr":                       "10.0.0.1",
		"limit":                      "42",
		"primary.host":               "primary.local",
		"primary.port":               "9000",
		"backup.host":                "backup.local",
		"routes[1].id":               "second",
		"routes[1].headers[X-Trace]": "on",
		"byId[7]":                    "seven",
		"extra.nested.deep":          "value",
		"alias":                      "renamed",
		"grid[1][2]":                 "5",
		"mirrors[eu].host":           "eu.local",
	}

	for key, value := range assignments {
		require.NoError(t, bind(t, binder, settings, key, value), key)
	}

	limit := 42

	assert.True(t, settings.Enabled)
	assert.InDelta(t, 0.25, settings.Ratio, 1e-9)
	assert.Equal(t, uint8(15), settings.Retries)
	assert.Equal(t, 90*time.Second, settings.Timeout)
	assert.Equal(t, []string{"red", "green", "blue"}, settings.Tags)
	assert.Equal(t, []int{80, 443}, settings.Ports)
	assert.Equal(t, [2]string{"", "second"}, settings.Fixed)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), settings.Addr)
	assert.Equal(t, &limit, settings.Limit)
	assert.Equal(t, Endpoint{Host: "primary.local", Port: 9000}, settings.Primary)
	assert.Equal(t, &Endpoint{Host: "backup.local"}, settings.Backup)
	require.Len(t, settings.Routes, 2)
	assert.Equal(t, Route{ID: "second", Headers: map[string]string{"X-Trace": "on"}}, settings.Routes[1])
	assert.Equal(t, map[int]string{7: "seven"}, settings.ByID)
	assert.Equal(t, map[string]any{"nested": map[string]any{"deep": "value"}}, settings.Extra)
	assert.Equal(t, "renamed", settings.Renamed)
	assert.Equal(t, [][]int{nil, {0, 0, 5}}, settings.Grid)
	assert.Equal(t, map[string]*Endpoint{"eu": {Host: "eu.local"}}, settings.Mirrors)
}

func TestBinder_NameMatching(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)

	for _, key := range []string{"name", "Name", "NAME"} {
		foo := &MyFoo{}

		require.NoError(t, bind(t, binder, foo, key, "Donkey"), key)
		assert.Equal(t, "Donkey", foo.Name, key)
	}

	endpoint := &Settings{}
	require.NoError(t, bind(t, binder, endpoint, "primary.HOST", "x"))
	assert.Equal(t, "x", endpoint.Primary.Host)
}

func TestBinder_MapKeysAccumulate(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)
	foo := &MyFoo{}

	require.NoError(t, bind(t, binder, foo, "map[key1]", "value1"))
	require.NoError(t, bind(t, binder, foo, "map[key2]", "value2"))
	require.NoError(t, bind(t, binder, foo, "map[key1]", "again"))
	require.NoError(t, bind(t, binder, foo, "map[key3]", "value3"))

	assert.Equal(t, map[string]string{"key1": "again", "key2": "value2", "key3": "value3"}, foo.Map)
}

func TestBinder_NumericKeyFollowsDeclaredType(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)
	settings := &Settings{}

	require.NoError(t, bind(t, binder, settings, "extra[1]", "map entry"))
	require.NoError(t, bind(t, binder, settings, "anything[1]", "untyped"))
	require.NoError(t, bind(t, binder, settings, "tags[1]", "list entry"))

	assert.Equal(t, map[string]any{"1": "map entry"}, settings.Extra)
	assert.Equal(t, map[string]any{"1": "untyped"}, settings.Anything)
	assert.Equal(t, []string{"", "list entry"}, settings.Tags)

	err := bind(t, binder, settings, "tags[x]", "nope")
	require.ErrorIs(t, err, beans.ErrTypeCoercion)
}

func TestBinder_Idempotent(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)
	first, second := &Settings{}, &Settings{}

	for range 2 {
		require.NoError(t, bind(t, binder, second, "routes[0].headers[a]", "1"))
		require.NoError(t, bind(t, binder, second, "primary.port", "80"))
	}

	require.NoError(t, bind(t, binder, first, "routes[0].headers[a]", "1"))
	require.NoError(t, bind(t, binder, first, "primary.port", "80"))

	assert.Equal(t, first, second)
}

func TestBinder_Errors(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)

	testCases := []struct {
		key      string
		value    string
		sentinel error
	}{
		{key: "enabled", value: "maybe", sentinel: beans.ErrTypeCoercion},
		{key: "retries", value: "300", sentinel: beans.ErrTypeCoercion},
		{key: "timeout", value: "soon", sentinel: beans.ErrTypeCoercion},
		{key: "ports", value: "80,http", sentinel: beans.ErrTypeCoercion},
		{key: "fixed[5]", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "tags[9223372036854775807]", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "ports[100000000000000]", value: "1", sentinel: beans.ErrTypeCoercion},
		{key: "tags[1024]", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "byId[seven]", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "primary", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "enabled.deeper", value: "x", sentinel: beans.ErrTypeCoercion},
		{key: "hidden", value: "x", sentinel: beans.ErrUnknownProperty},
		{key: "internal", value: "x", sentinel: beans.ErrUnknownProperty},
		{key: "missing", value: "x", sentinel: beans.ErrUnknownProperty},
		{key: "primary.missing", value: "x", sentinel: beans.ErrUnknownProperty},
		{key: "backup", value: "#bean:other", sentinel: beans.ErrTypeCoercion},
	}

	for _, testCase := range testCases {
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			err := bind(t, binder, &Settings{}, testCase.key, testCase.value)
			require.ErrorIs(t, err, testCase.sentinel)
			assert.Contains(t, err.Error(), testCase.key)
		})
	}
}

func TestBinder_InvalidTargets(t *testing.T) {
	t.Parallel()

	binder := beans.NewBinder(nil, nil)
	path := beans.Path{{Kind: beans.SegmentField, Name: "name"}}

	var nilFoo *MyFoo

	var nilMap map[string]any

	require.ErrorIs(t, binder.Bind(nil, path, "x"), beans.ErrTypeCoercion)
	require.ErrorIs(t, binder.Bind(nilFoo, path, "x"), beans.ErrTypeCoercion)
	require.ErrorIs(t, binder.Bind(nilMap, path, "x"), beans.ErrTypeCoercion)
	require.ErrorIs(t, binder.Bind(MyFoo{}, path, "x"), beans.ErrTypeCoercion)
	require.ErrorIs(t, binder.Bind(&MyFoo{}, nil, "x"), beans.ErrMalformedPath)
}

func TestBinder_Directives(t *testing.T) {
	t.Parallel()

	foo := &MyFoo{Name: "Donkey"}
	binder := beans.NewBinder(nil, staticResolver{
		"#bean:myfoo":                foo,
		"#bean:myfoo?method=getName": "Donkey",
		"#bean:count":                int32(7),
		"#bean:port":                 "8443",
	})

	holder := &Holder{}

	require.NoError(t, bind(t, binder, holder, "foo", "#bean:myfoo"))
	require.NoError(t, bind(t, binder, holder, "name", "#bean:myfoo?method=getName"))
	require.NoError(t, bind(t, binder, holder, "count", "#bean:count"))

	assert.Same(t, foo, holder.Foo)
	assert.Equal(t, "Donkey", holder.Name)
	assert.Equal(t, int64(7), holder.Count)

	endpoint := &Endpoint{}
	require.NoError(t, bind(t, binder, endpoint, "port", "#bean:port"))
	assert.Equal(t, 8443, endpoint.Port)

	err := bind(t, binder, holder, "name", "#bean:missing")
	require.ErrorIs(t, err, beans.ErrBeanNotFound)

	err = bind(t, binder, endpoint, "port", "#bean:myfoo")
	require.ErrorIs(t, err, beans.ErrTypeCoercion)
}

func TestBinder_BindAll(t *testing.T) {
	t.Parallel()

	assignments := func(t *testing.T) []beans.Assignment {
		t.Helper()

		var result []beans.Assignment

		for _, pair := range [][2]string{{"enabled", "nope"}, {"ratio", "1.5"}, {"retries", "-1"}} {
			path, err := beans.ParsePath(pair[0])
			require.NoError(t, err)

			result = append(result, beans.Assignment{Key: pair[0], Path: path, Value: pair[1]})
		}

		return result
	}

	binder := beans.NewBinder(nil, nil)

	collected := &Settings{}
	err := binder.BindAll(collected, assignments(t), false)
	require.ErrorIs(t, err, beans.ErrTypeCoercion)
	assert.Contains(t, err.Error(), `"enabled"`)
	assert.Contains(t, err.Error(), `"retries"`)
	assert.InDelta(t, 1.5, collected.Ratio, 1e-9, "siblings of a failing property are still bound")

	stopped := &Settings{}
	err = binder.BindAll(stopped, assignments(t), true)
	require.ErrorIs(t, err, beans.ErrTypeCoercion)
	assert.NotContains(t, err.Error(), `"retries"`)
	assert.Zero(t, stopped.Ratio)
}

func TestBinder_MapBindingProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.MapOfN(
			rapid.StringMatching(`[a-z][a-z0-9]{0,6}`),
			rapid.StringMatching(`[a-zA-Z0-9 ,.]{0,12}`),
			1, 8,
		).Draw(rt, "entries")

		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}

		order := rapid.Permutation(keys).Draw(rt, "order")

		binder := beans.NewBinder(nil, nil)
		foo := &MyFoo{}

		for _, key := range order {
			path, err := beans.ParsePath("map[" + key + "]")
			if err != nil {
				rt.Fatal(err)
			}

			err = binder.Bind(foo, path, entries[key])
			if err != nil {
				rt.Fatal(err)
			}
		}

		if len(foo.Map) != len(entries) {
			rt.Fatalf("bound %d entries, want %d", len(foo.Map), len(entries))
		}

		for key, value := range entries {
			if foo.Map[key] != value {
				rt.Fatalf("map[%s] = %q, want %q", key, foo.Map[key], value)
			}
		}
	})
}
