package shipping

// Route is a port-of-loading / port-of-discharge pair
type Route struct {
	PortOfLoading   string
	PortOfDischarge string
}

// Normalized returns the route with both ports normalized
func (r Route) Normalized() Route {
	return Route{
		PortOfLoading:   NormalizePort(r.PortOfLoading),
		PortOfDischarge: NormalizePort(r.PortOfDischarge),
	}
}

// RoutePatch carries the optional port fields of an amendment.
// A nil field leaves the current value untouched.
type RoutePatch struct {
	PortOfLoading   *string
	PortOfDischarge *string
}

// IsEmpty reports whether the patch changes no field
func (p RoutePatch) IsEmpty() bool {
	return p.PortOfLoading == nil && p.PortOfDischarge == nil
}

// Normalized returns a copy of the patch with present ports normalized
func (p RoutePatch) Normalized() RoutePatch {
	var out RoutePatch
	if p.PortOfLoading != nil {
		v := NormalizePort(*p.PortOfLoading)
		out.PortOfLoading = &v
	}
	if p.PortOfDischarge != nil {
		v := NormalizePort(*p.PortOfDischarge)
		out.PortOfDischarge = &v
	}
	return out
}

// ApplyTo returns the route that results from applying the patch to prev
func (p RoutePatch) ApplyTo(prev Route) Route {
	next := prev.Normalized()
	n := p.Normalized()
	if n.PortOfLoading != nil {
		next.PortOfLoading = *n.PortOfLoading
	}
	if n.PortOfDischarge != nil {
		next.PortOfDischarge = *n.PortOfDischarge
	}
	return next
}

// RouteChange is the outcome of comparing a route against a patch
type RouteChange struct {
	POLChanged bool
	PODChanged bool
	Changed    bool
	Previous   Route
	Next       Route
}

// DetectRouteChange compares the normalized previous route with the normalized patch.
// Absent patch fields never count as a change.
func DetectRouteChange(prev Route, patch RoutePatch) RouteChange {
	before := prev.Normalized()
	after := patch.ApplyTo(prev)

	change := RouteChange{
		POLChanged: before.PortOfLoading != after.PortOfLoading,
		PODChanged: before.PortOfDischarge != after.PortOfDischarge,
		Previous:   before,
		Next:       after,
	}
	change.Changed = change.POLChanged || change.PODChanged
	return change
}
