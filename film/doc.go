// Package film holds the film record model and the loader that reads records out of a
// hierarchical JSON content store.
//
// A content store file is a tree of JSON objects. One node of that tree is the film
// container; each object-valued child of the container is a film entry. Entries carry
// their attributes either as JSON scalars or as strings, next to repository metadata
// such as jcr:primaryType or sling:resourceType that never leaves this package.
//
// # Usage
//
//	src := film.FileSource{Path: "oscars.json", Container: "content/oscars"}
//	records, err := src.Films(ctx)
//	if err != nil {
//	    return err
//	}
package film
