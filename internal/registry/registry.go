package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Listener is notified when devices appear in or disappear from the
// registry (explicit removal and lease expiration alike). Calls are
// made outside the registry lock; registry methods may be called from
// inside a listener.
type Listener interface {
	DeviceAdded(d *meta.Device, local bool)
	DeviceRemoved(d *meta.Device, local bool)
}

// DefaultSweepInterval is used when Start is given a non-positive
// interval. Sweep cadence bounds how long an expired device may remain
// visible past its lease, not how early it can be removed.
const DefaultSweepInterval = 5 * time.Second

// defaultLeaseSeconds is assumed for remote devices whose descriptor
// carried no max-age.
const defaultLeaseSeconds = 1800

// entry is one registered root device with its origin and lease.
type entry struct {
	device *meta.Device
	local  bool

	// expires is the lease deadline; zero for local devices, which
	// never expire.
	expires time.Time
}

// Registry is the shared directory of registered device trees. All
// public methods are safe for concurrent use.
type Registry struct {
	advertisedHost string
	logger         Logger

	mu        sync.RWMutex
	roots     map[meta.UDN]*entry
	nodes     map[meta.UDN]*meta.Device
	resources map[string]*Resource
	listeners []Listener

	started  bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates an empty registry. advertisedHost is the host:port this
// registry's resources are served under; absolute resource URIs are
// only accepted for that host.
func New(advertisedHost string) *Registry {
	return &Registry{
		advertisedHost: advertisedHost,
		logger:         noopLogger{},
		roots:          make(map[meta.UDN]*entry),
		nodes:          make(map[meta.UDN]*meta.Device),
		resources:      make(map[string]*Resource),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// AddListener registers a lifecycle listener.
func (r *Registry) AddListener(l Listener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// AddLocalDevice registers a device served by this stack. Local
// devices never expire.
func (r *Registry) AddLocalDevice(d *meta.Device) error {
	return r.add(d, true, time.Time{})
}

// AddRemoteDevice registers a discovered device with an expiration
// lease taken from its descriptor's max-age. Re-registering a remote
// device under the same UDN refreshes the lease and replaces the tree;
// any other identity conflict is a *RegistrationError.
func (r *Registry) AddRemoteDevice(d *meta.Device) error {
	lease := defaultLeaseSeconds
	if d != nil && d.Identity.MaxAgeSeconds > 0 {
		lease = d.Identity.MaxAgeSeconds
	}
	return r.add(d, false, time.Now().Add(time.Duration(lease)*time.Second))
}

func (r *Registry) add(d *meta.Device, local bool, expires time.Time) error {
	if err := meta.ValidateDevice(d); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if !d.IsRoot() {
		return fmt.Errorf("registry: embedded device %q cannot be registered directly", d.UDN())
	}

	r.mu.Lock()

	existing := r.roots[d.UDN()]
	refresh := existing != nil && !existing.local && !local
	if existing != nil && !refresh {
		r.mu.Unlock()
		return &RegistrationError{UDN: d.UDN(), Reason: "UDN already registered"}
	}

	// Embedded UDNs must not collide with any other registered tree.
	for _, node := range d.AllDevices() {
		other, held := r.nodes[node.UDN()]
		if held && (existing == nil || other.Root() != existing.device) {
			r.mu.Unlock()
			return &RegistrationError{UDN: node.UDN(), Reason: "UDN held by another registered tree"}
		}
	}

	if refresh {
		r.removeLocked(existing)
	}
	r.insertLocked(d, local, expires)
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	if refresh {
		r.logger.Debug("remote device lease refreshed", "udn", d.UDN(), "expires", expires)
		return nil
	}

	for _, l := range listeners {
		l.DeviceAdded(d, local)
	}
	r.logger.Info("device registered",
		"udn", d.UDN(), "type", d.Type.String(), "local", local)
	return nil
}

// RemoveDevice removes the root device with the given UDN, its whole
// subtree, and all its resources. Removing an absent device is a
// no-op; the return value reports whether anything was removed.
func (r *Registry) RemoveDevice(udn meta.UDN) bool {
	r.mu.Lock()
	e, ok := r.roots[udn]
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.removeLocked(e)
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.DeviceRemoved(e.device, e.local)
	}
	r.logger.Info("device removed", "udn", udn, "local", e.local)
	return true
}

// insertLocked indexes a tree. Caller holds the write lock.
func (r *Registry) insertLocked(d *meta.Device, local bool, expires time.Time) {
	r.roots[d.UDN()] = &entry{device: d, local: local, expires: expires}
	for _, node := range d.AllDevices() {
		r.nodes[node.UDN()] = node
	}
	for _, res := range resourcesFor(d, local) {
		r.resources[res.Path] = res
	}
}

// removeLocked unindexes a tree. Caller holds the write lock.
func (r *Registry) removeLocked(e *entry) {
	delete(r.roots, e.device.UDN())
	for _, node := range e.device.AllDevices() {
		delete(r.nodes, node.UDN())
	}
	for _, res := range resourcesFor(e.device, e.local) {
		delete(r.resources, res.Path)
	}
}

// ─── Lookups ────────────────────────────────────────────────────────────────
//
// Absence is a normal nil result, never an error.

// GetDevice returns the device with the given UDN, local or remote.
// With rootOnly, embedded devices are not matched.
func (r *Registry) GetDevice(udn meta.UDN, rootOnly bool) *meta.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rootOnly {
		if e, ok := r.roots[udn]; ok {
			return e.device
		}
		return nil
	}
	return r.nodes[udn]
}

// GetLocalDevice returns the local device node with the given UDN.
func (r *Registry) GetLocalDevice(udn meta.UDN) *meta.Device {
	return r.getByOrigin(udn, true)
}

// GetRemoteDevice returns the remote device node with the given UDN.
func (r *Registry) GetRemoteDevice(udn meta.UDN) *meta.Device {
	return r.getByOrigin(udn, false)
}

func (r *Registry) getByOrigin(udn meta.UDN, local bool) *meta.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[udn]
	if !ok {
		return nil
	}
	e := r.roots[node.Root().UDN()]
	if e == nil || e.local != local {
		return nil
	}
	return node
}

// Devices returns all registered root devices.
func (r *Registry) Devices() []*meta.Device {
	return r.rootsByOrigin(nil)
}

// LocalDevices returns all local root devices.
func (r *Registry) LocalDevices() []*meta.Device {
	local := true
	return r.rootsByOrigin(&local)
}

// RemoteDevices returns all remote root devices.
func (r *Registry) RemoteDevices() []*meta.Device {
	local := false
	return r.rootsByOrigin(&local)
}

func (r *Registry) rootsByOrigin(local *bool) []*meta.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*meta.Device
	for _, e := range r.roots {
		if local == nil || e.local == *local {
			out = append(out, e.device)
		}
	}
	return out
}

// DevicesByType returns every registered device node, root or
// embedded, whose type matches t exactly. No sub-typing match.
func (r *Registry) DevicesByType(t meta.DeviceType) []*meta.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*meta.Device
	for _, e := range r.roots {
		for _, node := range e.device.AllDevices() {
			if node.Type == t {
				out = append(out, node)
			}
		}
	}
	return out
}

// DevicesByServiceType returns every registered device node that
// directly carries a service of the given type. Exact match only.
func (r *Registry) DevicesByServiceType(t meta.ServiceType) []*meta.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*meta.Device
	for _, e := range r.roots {
		for _, node := range e.device.AllDevices() {
			for _, s := range node.Services() {
				if s.Type == t {
					out = append(out, node)
					break
				}
			}
		}
	}
	return out
}

// Size returns the number of registered root devices.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roots)
}

// ─── Expiration ─────────────────────────────────────────────────────────────

// Start launches the background expiration sweep. A non-positive
// interval selects DefaultSweepInterval. The sweep stops when ctx is
// cancelled or Shutdown is called.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go r.sweep(ctx, interval)
	r.logger.Info("expiration sweep started", "interval", interval)
}

func (r *Registry) sweep(ctx context.Context, interval time.Duration) {
	defer close(r.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.removeExpired(time.Now())
		}
	}
}

// removeExpired removes every remote entry whose lease deadline lies
// before now, with full index cleanup and listener notification.
// Returns the number of trees removed.
func (r *Registry) removeExpired(now time.Time) int {
	r.mu.Lock()
	var expired []*entry
	for _, e := range r.roots {
		if !e.local && now.After(e.expires) {
			expired = append(expired, e)
		}
	}
	for _, e := range expired {
		r.removeLocked(e)
	}
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, e := range expired {
		for _, l := range listeners {
			l.DeviceRemoved(e.device, false)
		}
		r.logger.Info("remote device expired", "udn", e.device.UDN())
	}
	return len(expired)
}

// Shutdown stops the sweep and removes all remote entries, notifying
// listeners of each disappearance. Local devices stay registered.
func (r *Registry) Shutdown() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.done
	}

	r.mu.Lock()
	var removed []*entry
	for _, e := range r.roots {
		if !e.local {
			removed = append(removed, e)
		}
	}
	for _, e := range removed {
		r.removeLocked(e)
	}
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, e := range removed {
		for _, l := range listeners {
			l.DeviceRemoved(e.device, false)
		}
	}
	r.logger.Info("registry shut down", "removed", len(removed))
}
