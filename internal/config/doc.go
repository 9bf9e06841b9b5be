// Package config provides the typed, hierarchical configuration store.
//
// A Store is built from a schema: a set of headings, each holding entries
// with a default value, a primitive type and validation rules. Values can
// then be overridden from text files and by the program, saved back with
// their documentation comments, and reset to the schema defaults.
//
// # Sub-packages
//
//   - priority: deterministic ordering of headings and entries
//   - registry: typed entries and the sections holding them
//   - schema: the default structure, built in code or decoded from TOML,
//     YAML or JSON with comments
//   - codec: the text format read by Load and written by Save
//   - layer: the order in which primary and fallback files are applied
//   - loader: the file system collaborator
//   - notify: change notification
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	s := schema.NewBuilder().
//	    Heading("Audio", schema.HeadingInfo("Sound settings")).
//	    Entry("Audio", "Volume", 5, schema.Range(0, 10), schema.Info("Output volume")).
//	    Entry("Audio", "Muted", false).
//	    Build()
//
//	// New validates the schema.
//	store, err := config.New(s)
//	if err != nil {
//	    return err
//	}
//
//	// Fallbacks are applied first, the primary file last.
//	if err := store.Load("settings.ini", "/etc/app/settings.ini"); err != nil {
//	    return err
//	}
//
//	volume, _ := store.GetInt("Audio.Volume")
//
// # Writing Values
//
// Writes are coerced into the entry's type. Numbers are clamped into their
// bounds; anything that cannot be converted, or a write to a locked entry,
// is dropped silently and reported only through the returned bool:
//
//	ok, err := store.Set("Audio", "Volume", "15") // stored as 10
//	ok, err = store.Set("Audio", "Volume", "loud") // ok == false, value kept
//
// # File Format
//
//	[Audio]
//	// Sound settings
//	Volume = 5        // Output volume
//	Muted = false
//
// Headings and variables the schema does not define are skipped when
// loading. A line that is neither a header nor "key = value" fails the load.
//
// # Change Notification
//
//	sub := store.SubscribePath("Audio", func(c notify.Change) {
//	    fmt.Printf("%s: %v -> %v\n", c.Path(), c.OldValue, c.NewValue)
//	})
//	defer sub.Unsubscribe()
package config
