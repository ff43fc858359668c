package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every area's HTTP handler; the application
// collects them and mounts their routes on one router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
