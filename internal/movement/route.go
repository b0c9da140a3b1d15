package movement

import "github.com/yskaart/sentry/internal/model"

// Route drives a body around a closed loop of points.
type Route struct {
	body   *Body
	points []model.Vec3
	index  int
}

// NewRoute creates a looping route. An empty route never moves the body.
func NewRoute(body *Body, points []model.Vec3) *Route {
	r := &Route{body: body, points: points}
	if len(points) > 0 {
		body.SetDestination(points[0])
	}
	return r
}

// Index returns the point the body is currently heading to.
func (r *Route) Index() int {
	return r.index
}

// Advance moves the body and re-targets the next point on arrival.
func (r *Route) Advance(dt float64) {
	if len(r.points) == 0 {
		return
	}
	r.body.Advance(dt)
	if r.body.HasArrived() {
		r.index = (r.index + 1) % len(r.points)
		r.body.SetDestination(r.points[r.index])
	}
}

// Reset returns the body to pose and restarts the loop from the first point.
func (r *Route) Reset(pose model.Pose) {
	r.body.Reset(pose)
	r.index = 0
	if len(r.points) > 0 {
		r.body.SetDestination(r.points[0])
	}
}
