// Package watcher reports debounced changes to record files under a
// directory tree using fsnotify.
//
// Usage:
//
//	w, err := watcher.New(watcher.Options{Extensions: []string{".json"}})
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go func() { _ = w.Start(ctx, dir) }()
//
//	for batch := range w.Events() {
//	    for _, event := range batch {
//	        switch event.Operation {
//	        case watcher.OpCreate, watcher.OpModify:
//	            // (re)load event.Path
//	        case watcher.OpDelete:
//	            // drop objects loaded from event.Path
//	        }
//	    }
//	}
package watcher
