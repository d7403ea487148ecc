// Package descriptor binds UPnP XML descriptor documents — device
// descriptors and service SCPD documents — into the meta device model.
//
// One token-stream state machine drives the parse:
//
//	stateStart → stateReadingDevice → (stateReadingService |
//	    stateReadingEmbedded)* → stateDone
//
// with any structural violation absorbing into an error. Two binder
// variants share the machine:
//
//   - NewStrict: any violation — leading garbage, wrong or missing root
//     namespace, malformed UDN, missing serviceId, unknown dataType —
//     surfaces a *BindingError carrying the element path.
//   - NewRecovering: a fixed allow-list of real-world malformations is
//     silently corrected (garbage stripped, namespace normalized,
//     root-level serviceList relocated, serviceId inferred, uuid:
//     prefix prepended); everything else errors exactly as in strict
//     mode.
//
// Binders are stateless and reentrant: documents may be parsed
// concurrently, and a tree is only returned after passing
// meta.ValidateDevice — partial trees are never returned.
package descriptor
