// Package catalog maps the provider kinds named in declaration sources to
// the compiled Go factories that construct them.
//
// A declaration never names Go types directly. It names a kind ("text",
// "socketio", ...) and supplies arguments; the catalog looks the kind up for
// the declared category and calls the factory with those arguments. Modules
// fill a catalog at startup through the Module interface.
package catalog
