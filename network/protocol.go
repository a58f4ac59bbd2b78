package network

// Message ids. 1xx is room lifecycle, 2xx is movement and generic actions,
// 3xx is table booking, 4xx is the order flow, 5xx is ratings and session
// wrap-up. Client->server and server->client share the same number space.
const (
	MsgTypeHeartbeat = 1

	// room lifecycle
	MsgTypeJoinRoom     = 101
	MsgTypeRoomJoined   = 102
	MsgTypePlayerJoined = 103
	MsgTypeRoomFull     = 104
	MsgTypeRoleTaken    = 105
	MsgTypePlayerLeft   = 106

	// movement / generic relay
	MsgTypePlayerMove   = 201
	MsgTypePlayerMoved  = 202
	MsgTypePlayerAction = 203

	// table booking
	MsgTypeBookTable        = 301
	MsgTypeTableAssigned    = 302
	MsgTypeTableUnavailable = 303
	MsgTypeTableBooked      = 304
	MsgTypeWaiterApproached = 305

	// order flow
	MsgTypePlaceOrder         = 401
	MsgTypeOrderPlaced        = 402
	MsgTypeOrderReceived      = 403
	MsgTypeOrderStatusUpdate  = 404
	MsgTypeOrderStatusChanged = 405
	MsgTypeOrderCompleted     = 406
	MsgTypeOrderReady         = 407
	MsgTypeOrderCancelled     = 408
	MsgTypeOrderRejected      = 409

	// informational relays
	MsgTypeTutorialCompleted = 501
	MsgTypeVisitorSatDown    = 502
	MsgTypeMenuRequested     = 503
	MsgTypeMenuBrought       = 504
	MsgTypeWaiterLine        = 505

	// ratings / session end
	MsgTypeSubmitRating = 601
	MsgTypeRatingShared = 602
	MsgTypeEndSession   = 603
	MsgTypeSessionEnded = 604
)
