// Package core contains the bridge contracts, the initialization gate and the
// orchestration around a backing deep-link SDK. Surfaces (command, query,
// channel) and storage adapters depend on this package; core must not depend
// on them.
package core
