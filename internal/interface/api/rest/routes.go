package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth   = RouteApiV1 + "/auth"
	RouteLogin  = RouteAuth + "/login"
	RouteLogout = RouteAuth + "/logout"

	RouteUsers        = RouteApiV1 + "/users"
	RouteUser         = RouteUsers + "/:user_id"
	RouteUserPresence = RouteUser + "/presence"
	RouteUsersSorted  = RouteUsers + "/sorted"
	RouteUsersOnline  = RouteUsers + "/online"
	RouteUsersByRole  = RouteUsers + "/role/:role"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
