package beans_test

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/0xalexb/hjarta-beans/beans"
)

type MyFoo struct {
	Name string
	Map  map[string]string
}

func (f *MyFoo) GetName() string {
	return f.Name
}

type MyFactory struct {
	Counter int
}

type Endpoint struct {
	Host string
	Port int
}

type Route struct {
	ID      string
	Headers map[string]string
}

type Settings struct {
	Enabled  bool
	Ratio    float64
	Retries  uint8
	Timeout  time.Duration
	Tags     []string
	Ports    []int
	Fixed    [2]string
	Addr     netip.Addr
	Limit    *int
	Primary  Endpoint
	Backup   *Endpoint
	Routes   []Route
	ByID     map[int]string
	Extra    map[string]any
	Anything any
	Renamed  string `bean:"alias"`
	Hidden   string `bean:"-"`
	Grid     [][]int
	Mirrors  map[string]*Endpoint
	internal string //nolint:unused // unexported fields are never bound
}

type Holder struct {
	Foo   *MyFoo
	Name  string
	Count int64
}

type Node struct {
	Label string
	Next  *Node
}

type Greeter interface {
	Greet() string
}

type English struct{}

func (English) Greet() string { return "hello" }

type Lookup struct{}

func (Lookup) Resolve() (string, error) { return "resolved", nil }

func (Lookup) Broken() (string, error) { return "", errors.New("backend down") }

func (Lookup) Add(a, b int) int { return a + b }

// closeRecorder records the order in which beans are closed.
type closeRecorder struct {
	mu     sync.Mutex
	closed []string
}

func (r *closeRecorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = append(r.closed, name)
}

type closingResource struct {
	name     string
	recorder *closeRecorder
}

func (c *closingResource) Close() error {
	c.recorder.add(c.name)

	return nil
}

type contextResource struct {
	name     string
	recorder *closeRecorder
	err      error
}

func (c *contextResource) Close(context.Context) error {
	c.recorder.add(c.name)

	return c.err
}

func testCatalog() *beans.Catalog {
	catalog := beans.NewCatalog()

	beans.RegisterType[MyFoo](catalog, "MyFoo")
	beans.RegisterType[MyFactory](catalog, "MyFactory")
	beans.RegisterType[Settings](catalog, "Settings")
	beans.RegisterType[Holder](catalog, "Holder")
	beans.RegisterType[Node](catalog, "Node")
	beans.RegisterType[map[string]int](catalog, "Counters")
	beans.RegisterFactory(catalog, func() *Endpoint { return &Endpoint{Host: "localhost", Port: 8080} }, "Endpoint")
	beans.RegisterFactory(catalog, func() Greeter { return English{} }, "English")
	beans.RegisterInterface[Greeter](catalog, "Greeter")

	return catalog
}
