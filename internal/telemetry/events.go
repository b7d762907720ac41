package telemetry

// Event names recorded by the app, one per user-meaningful action.
const (
	// Home
	EventPageViewHome = "page_view_home"
	EventSelectTime   = "select_time"
	EventSelectMenu   = "select_menu"

	// Player
	EventPageViewPlayer  = "page_view_player"
	EventVideoPlayStart  = "video_play_start"
	EventVideoPlayPause  = "video_play_pause"
	EventVideoPlayEnd    = "video_play_end"
	EventClickFinishMeal = "click_finish_meal"
	EventClickOtherVideo = "click_other_video"

	// Receipt
	EventPageViewReceipt = "page_view_receipt"
	EventClickWatchAgain = "click_watch_again"

	// History
	EventPageViewHistory  = "page_view_history"
	EventClickReceiptCard = "click_receipt_card"
)
