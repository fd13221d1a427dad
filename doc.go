// Package formfill fills JSON documents through scenario driven forms and
// renders them with a template.
//
// An App owns the document being filled. Fields are addressed by dotted
// paths such as "items.0.qty"; writes create the intermediate objects and
// array elements they need. Each successful change is persisted through a
// store.Store and re-rendered with the scenario template, while failures
// are published on a notify.Bus:
//
//	app, err := formfill.New(scenario, formfill.WithStore(store.NewMemoryStore()))
//	if err != nil {
//		return err
//	}
//	if err := app.Open(ctx); err != nil {
//		return err
//	}
//	_ = app.Edit(ctx, fieldpath.New("customer.name"), document.String("Ada"))
//	out, err := app.Render()
//
// The session package drives an App interactively from the terminal.
package formfill
