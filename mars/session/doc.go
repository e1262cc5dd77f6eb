// Package session keeps the missions created through the service layer.
//
// Missions live in memory only and are identified by a random UUID. Lookups
// are case-insensitive. Missions that have not been accessed within a
// retention window can be dropped with CleanupExpired, which the server runs
// periodically.
package session
