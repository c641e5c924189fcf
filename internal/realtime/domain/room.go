package domain

// Room name prefixes. A room is just a string key in the registry; these
// helpers keep every component deriving the same key.
const (
	userRoomPrefix     = "user:"
	questionRoomPrefix = "question:"
	pairRoomPrefix     = "dm:"
)

// UserRoom personal notification channel for one user
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// QuestionRoom broadcast scope for a question's live updates
func QuestionRoom(questionID string) string {
	return questionRoomPrefix + questionID
}

// PairRoom canonical chat room for two users. The ids are sorted so both
// participants derive the same room name.
func PairRoom(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return pairRoomPrefix + userA + ":" + userB
}
