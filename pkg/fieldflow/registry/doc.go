// Package registry provides a generic thread-safe registry for values indexed by key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. It supports
// any comparable key type and any value type through Go generics.
//
// # Basic Usage
//
// Create a registry and register values:
//
//	r := registry.New[string, int]()
//	r.Register("one", 1)
//	r.Register("two", 2)
//
//	value, ok := r.Get("one")
//	if ok {
//	    fmt.Println(value) // Output: 1
//	}
//
// # Named Extension Points
//
// Registries back the named extension points across the module: agent
// definitions by ID, validators by name, completion hooks by action:
//
//	validators := registry.New[string, validate.Func]()
//	validators.Register("email", validate.Email)
//	validators.Register("phone", validate.Phone)
//
//	// Later, look one up by the name an agent definition uses
//	fn, ok := validators.Get("email")
//	if ok {
//	    err := fn(value, cfg)
//	    // handle err...
//	}
//
// # Lazy Initialization
//
// Use GetOrCreate for thread-safe lazy initialization:
//
//	// Compiled conversation graph per agent
//	graphs := registry.New[string, *CompiledGraph]()
//
//	// First call builds the graph, subsequent calls return the same one
//	g := graphs.GetOrCreate("registration", func() *CompiledGraph {
//	    return buildGraph("registration")
//	})
//
// GetOrCreate is atomic - the factory function is called at most once per key,
// even under concurrent access.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. The Range method iterates
// over a snapshot of the registry, allowing mutations during iteration without
// affecting the iteration itself:
//
//	r.Range(func(key string, value int) bool {
//	    // Safe to call r.Register() or r.Delete() here
//	    if value < 0 {
//	        r.Delete(key) // Won't affect current iteration
//	    }
//	    return true // continue iteration
//	})
package registry
