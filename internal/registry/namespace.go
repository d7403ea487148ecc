package registry

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// ResourceKind classifies what a registered path serves.
type ResourceKind string

const (
	// KindDeviceDescriptor is a root device's descriptor document.
	KindDeviceDescriptor ResourceKind = "device-descriptor"

	// KindServiceDescriptor is a local service's SCPD document.
	KindServiceDescriptor ResourceKind = "service-descriptor"

	// KindControl is a local service's control endpoint.
	KindControl ResourceKind = "control"

	// KindEventSubscription is a local service's event subscription
	// endpoint.
	KindEventSubscription ResourceKind = "event-subscription"

	// KindEventCallback is the callback endpoint this stack exposes for
	// a remote service's event notifications.
	KindEventCallback ResourceKind = "event-callback"
)

// Resource is one addressable entry in the registry's path namespace.
type Resource struct {
	Kind ResourceKind
	Path string

	// Device is the node that owns the resource; Service is set for all
	// kinds except KindDeviceDescriptor.
	Device  *meta.Device
	Service *meta.Service
}

// Path namespace:
//
//	/dev/{udn}/desc                            device descriptor
//	/dev/{udn}/svc/{ns}/{id}/desc              SCPD
//	/dev/{udn}/svc/{ns}/{id}/control           control
//	/dev/{udn}/svc/{ns}/{id}/event             event subscription
//	/dev/{udn}/svc/{ns}/{id}/event/cb          event callback
const pathPrefix = "/dev/"

func deviceDescriptorPath(udn meta.UDN) string {
	return pathPrefix + string(udn) + "/desc"
}

func servicePath(udn meta.UDN, id meta.ServiceID, leaf string) string {
	return pathPrefix + string(udn) + "/svc/" + id.Namespace + "/" + id.ID + "/" + leaf
}

// resourcesFor enumerates the paths a tree publishes. Local trees
// publish their descriptor, SCPD, control and event endpoints; remote
// trees publish the event-callback endpoints this stack answers on.
func resourcesFor(root *meta.Device, local bool) []*Resource {
	var out []*Resource

	if local {
		out = append(out, &Resource{
			Kind:   KindDeviceDescriptor,
			Path:   deviceDescriptorPath(root.UDN()),
			Device: root,
		})
	}

	for _, node := range root.AllDevices() {
		for _, svc := range node.Services() {
			if local {
				out = append(out,
					&Resource{Kind: KindServiceDescriptor, Path: servicePath(node.UDN(), svc.ID, "desc"), Device: node, Service: svc},
					&Resource{Kind: KindControl, Path: servicePath(node.UDN(), svc.ID, "control"), Device: node, Service: svc},
					&Resource{Kind: KindEventSubscription, Path: servicePath(node.UDN(), svc.ID, "event"), Device: node, Service: svc},
				)
			} else {
				out = append(out, &Resource{
					Kind:    KindEventCallback,
					Path:    servicePath(node.UDN(), svc.ID, "event/cb"),
					Device:  node,
					Service: svc,
				})
			}
		}
	}
	return out
}

// GetResource resolves a resource by relative path or absolute URI.
// Absolute URIs are only accepted for the registry's advertised host
// (ErrForeignHost otherwise); paths outside the /dev/ namespace are
// ErrInvalidResourcePath. A well-formed path that matches nothing
// returns nil, nil.
func (r *Registry) GetResource(rawPath string) (*Resource, error) {
	path, err := r.normalizePath(rawPath)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resources[path], nil
}

// GetResourceOfKind resolves a resource and additionally requires its
// kind; a path registered under a different kind returns nil, nil.
func (r *Registry) GetResourceOfKind(kind ResourceKind, rawPath string) (*Resource, error) {
	res, err := r.GetResource(rawPath)
	if err != nil || res == nil {
		return nil, err
	}
	if res.Kind != kind {
		return nil, nil
	}
	return res, nil
}

// normalizePath reduces an absolute URI or relative path to a
// namespace path, enforcing the host and prefix rules.
func (r *Registry) normalizePath(rawPath string) (string, error) {
	path := rawPath
	if strings.Contains(rawPath, "://") {
		u, err := url.Parse(rawPath)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidResourcePath, rawPath, err)
		}
		if u.Host != r.advertisedHost {
			return "", fmt.Errorf("%w: %q serves %q", ErrForeignHost, u.Host, r.advertisedHost)
		}
		path = u.Path
	}

	if !strings.HasPrefix(path, pathPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourcePath, rawPath)
	}
	return path, nil
}
