package entities

// UserState is the persisted interaction state of a user.
type UserState string

const (
	StateIdle             UserState = "idle"
	StateMainMenu         UserState = "main_menu"
	StateWaitingForAnswer UserState = "waiting_for_answer"
)

// User represents a bot user. One row per user, upserted on transitions.
type User struct {
	ID                int64 // Telegram user ID
	Username          string
	CurrentQuestionID *int64
	State             UserState
}

func NewUser(id int64, username string) *User {
	return &User{
		ID:       id,
		Username: username,
		State:    StateIdle,
	}
}
