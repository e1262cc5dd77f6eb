// Package websocket streams mission activity to browsers and other
// subscribers.
//
// A central Hub owns every connection. Clients subscribe to one mission via
// the ?mission=<id> query parameter and receive JSON messages:
//
//	{"mission_id": "...", "event": "mission_snapshot", "mission": {...}}
//	{"mission_id": "...", "event": "robot_deployed", "robot": {...}, "mission": {...}}
//	{"mission_id": "...", "event": "mission_deleted"}
//
// The snapshot is sent once on connect; deployments are broadcast as they
// happen. Incoming client messages are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, missionID, snapshot)
//	hub.BroadcastDeployment(result)
package websocket
