// Package internal contains the core implementation packages for the designer.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the functionality behind the designer CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - tree: Index arithmetic over flat parent-pointer encoded lists
//   - pagedata: Page data access paths and value resolution
//   - registry: Extension registry with change subscriptions
//   - instancemap: Bridge between per-renderer widget instance maps
//   - designable: Design-mode wrapping of widgets (focus, highlight, overlay)
//   - widgets: The bundled standard component package
//   - renderer: Rendering cycle producing vdom frames
//   - session: The designer host tying the pieces together
//   - page: Page model loading and saving
//   - server: HTTP and WebSocket surface of a session
//   - watcher: Page model file monitoring with debouncing
//   - config, logging, errors, version: Ambient support
//
// # Inter-Package Communication
//
// Packages communicate through small interfaces and event channels:
//
//   - The session owns the registry and instance bridge and renders frames
//   - Registry watchers learn of widget registrations and re-render
//   - Session events (focus, highlight, property changes) feed the server hub
//   - The watcher reloads the page model and the session swaps it in
//
// # Testing Strategy
//
// Each package carries table-driven unit tests using testify. Property
// tests built on gopter live behind the property build tag:
//
//	go test -tags property ./...
package internal
