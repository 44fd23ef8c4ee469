package services

// Storage slots. Each holds one whole collection serialized as JSON.
const (
	CoachesKey          = "trustive_gurus_data"
	UsersKey            = "trustive_users"
	CoachAccountsKey    = "trustive_coach_accounts"
	ReviewTimestampsKey = "trustive_review_timestamps"
	SessionKey          = "trustive_session"
)
