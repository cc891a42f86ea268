package beans_test

import (
	"fmt"

	"github.com/0xalexb/hjarta-beans/beans"
)

type Mailer struct {
	Host    string
	Port    int
	Retries []int
}

type Notifier struct {
	Mailer *Mailer
	Sender string
}

func ExampleRegistry_ResolveAll() {
	catalog := beans.NewCatalog()
	beans.RegisterType[Mailer](catalog, "Mailer")
	beans.RegisterType[Notifier](catalog, "Notifier")

	store := beans.NewStore()
	store.Set("app.beans.mailer", "#class:Mailer")
	store.Set("app.beans.mailer.host", "smtp.local")
	store.Set("app.beans.mailer.port", "2525")
	store.Set("app.beans.mailer.retries", "1,5,30")
	store.Set("app.beans.notifier", "#class:Notifier")
	store.Set("app.beans.notifier.mailer", "#type:Mailer")
	store.Set("app.beans.notifier.sender", "noreply")

	registry := beans.NewRegistry(beans.WithCatalog(catalog))

	err := registry.ResolveAll(beans.Descriptors(store, "app.beans"))
	if err != nil {
		fmt.Println(err)

		return
	}

	notifier, _ := beans.LookupAs[*Notifier](registry, "notifier")
	fmt.Println(notifier.Sender, notifier.Mailer.Host, notifier.Mailer.Port, notifier.Mailer.Retries)

	// Output:
	// noreply smtp.local 2525 [1 5 30]
}

func ExampleLookupAndConvert() {
	registry := beans.NewRegistry()

	err := registry.Register("mailer", &Mailer{Host: "smtp.local", Port: 2525})
	if err != nil {
		fmt.Println(err)

		return
	}

	port, err := beans.LookupAndConvert[int64](registry, "#bean:mailer?method=getPort")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(port)

	// Output:
	// 2525
}

func ExampleFailedBeans() {
	registry := beans.NewRegistry()

	store := beans.NewStore()
	store.Set("app.beans.first", "#bean:second")
	store.Set("app.beans.second", "#bean:first")

	err := registry.ResolveAll(beans.Descriptors(store, "app.beans"))
	for _, failure := range beans.FailedBeans(err) {
		fmt.Println(failure.Alias)
	}

	// Output:
	// first
	// second
}
