// Package registry is the concurrent directory of local and remote
// UPnP devices.
//
// One RWMutex guards the whole registry state: the root entry set, the
// per-node UDN index and the resource path index. Every mutation (add,
// remove, expire) updates all of them before the lock is released, so
// a reader never observes a device present in one index and absent
// from another.
//
//	roots      UDN → entry (root devices, local or remote+lease)
//	nodes      UDN → device node (roots and embedded)
//	resources  path → Resource (/dev/{udn}/... namespace)
//
// Remote entries expire: a background sweep started with Start removes
// entries whose lease has lapsed, with the same index cleanup as an
// explicit removal. Listeners are notified of additions and removals
// outside the registry lock.
package registry
