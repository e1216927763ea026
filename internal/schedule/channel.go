package schedule

// ChannelFor returns the broadcast channel address for one tenant's week.
// Producer, worker, and every subscriber must derive the address through
// this helper; a divergent format would silently stop event delivery.
func ChannelFor(tenantID, weekStart string) string {
	return "tenant:" + tenantID + ":schedule:" + weekStart
}

// ScheduleID derives the deterministic identifier of the schedule produced
// for one tenant's week. Re-running generation for the same week yields the
// same ID.
func ScheduleID(tenantID, weekStart string) string {
	return tenantID + ":" + weekStart
}
