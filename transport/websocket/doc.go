// Package websocket pushes world events to browser and agent clients.
//
// Clients subscribe to a single world by id when they connect
// (/ws?world=skirmish). The Hub owns every subscription and runs on one
// goroutine; each connection gets a read pump and a write pump.
//
// Message Protocol:
//
// Every outgoing message is one JSON object per WebSocket frame:
//
//	{"world": "skirmish", "revision": "...", "event": "world_reloaded", "data": {...}}
//
// A client receives "subscribed" right after registration and
// "world_reloaded" with the new world summary whenever the world is
// reloaded from disk. Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("world"))
//	})
//
//	hub.BroadcastWorld("skirmish", revision, websocket.EventWorldReloaded, info)
package websocket
