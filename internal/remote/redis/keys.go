package redis

const (
	// keyPrefix namespaces every launcher key in Redis.
	keyPrefix = "launcher:"
	// KeyAllUsers is the set of user IDs that own at least one document.
	KeyAllUsers = keyPrefix + "users"
)

// EntryKey returns the Redis key for an entry document.
func EntryKey(userID, id string) string {
	return keyPrefix + "user:" + userID + ":entry:" + id
}

// EntrySetKey returns the key for the set of a user's entry IDs.
func EntrySetKey(userID string) string {
	return keyPrefix + "user:" + userID + ":entries"
}

// EntryChannel returns the pub/sub channel carrying a user's entry changes.
func EntryChannel(userID string) string {
	return keyPrefix + "user:" + userID + ":entries:changes"
}

// GroupKey returns the Redis key for a group document.
func GroupKey(userID, id string) string {
	return keyPrefix + "user:" + userID + ":group:" + id
}

// GroupSetKey returns the key for the set of a user's group IDs.
func GroupSetKey(userID string) string {
	return keyPrefix + "user:" + userID + ":groups"
}

// GroupChannel returns the pub/sub channel carrying a user's group changes.
func GroupChannel(userID string) string {
	return keyPrefix + "user:" + userID + ":groups:changes"
}
