package domain

// Copy names one entry of the copy catalogue.
type Copy string

const (
	CopyWelcome              Copy = "welcome"
	CopyAskName              Copy = "ask_name"
	CopyRepeatRegistration   Copy = "repeat_registration"
	CopyHelp                 Copy = "help"
	CopyPleaseSendText       Copy = "please_send_text"
	CopyAskWish              Copy = "ask_wish"
	CopyAskCity              Copy = "ask_city"
	CopyChooseCity           Copy = "choose_city"
	CopyCityAccepted         Copy = "city_accepted"
	CopyKeepSecret           Copy = "keep_secret"
	CopyShowWish             Copy = "show_wish"
	CopyWishChanged          Copy = "wish_changed"
	CopyChildHistory         Copy = "child_history"
	CopyChildHistoryEmpty    Copy = "child_history_empty"
	CopySantaHistory         Copy = "santa_history"
	CopySantaHistoryEmpty    Copy = "santa_history_empty"
	CopyChildChatOpened      Copy = "child_chat_opened"
	CopySantaChatOpened      Copy = "santa_chat_opened"
	CopyChatClosed           Copy = "chat_closed"
	CopyFromSanta            Copy = "from_santa"
	CopyFromChild            Copy = "from_child"
	CopyParticipantTable     Copy = "participant_table"
	CopyDistributionDone     Copy = "distribution_done"
	CopyDistributionRejected Copy = "distribution_rejected"
	CopyDistributionAnnounce Copy = "distribution_announce"
	CopyRecipientRevealed    Copy = "recipient_revealed"
	CopyNotifyDone           Copy = "notify_done"
)

// Role words substituted into thread history.
const (
	CopyWordYou   Copy = "word_you"
	CopyWordSanta Copy = "word_santa"
	CopyWordChild Copy = "word_child"
)

// Keyboard is a hint for the transport, which owns the actual buttons.
type Keyboard uint8

const (
	KeyboardNone Keyboard = iota
	KeyboardCities
	KeyboardWaiting
	KeyboardChatMenu
	KeyboardCloseChat
)

// Effect is an outbound instruction produced by the core.
// It carries no display text: the copy catalogue renders it.
type Effect struct {
	To       ParticipantID
	Copy     Copy
	Args     map[string]string
	Keyboard Keyboard
}

func NewEffect(to ParticipantID, copy Copy) Effect {
	return Effect{To: to, Copy: copy}
}

func (e Effect) With(key, value string) Effect {
	args := make(map[string]string, len(e.Args)+1)
	for k, v := range e.Args {
		args[k] = v
	}
	args[key] = value
	e.Args = args
	return e
}

func (e Effect) WithKeyboard(k Keyboard) Effect {
	e.Keyboard = k
	return e
}

// Button is a rendered keyboard entry. Pressing it emits Signal with Value.
type Button struct {
	Label  string
	Signal string
	Value  string
}

// Delivery is what the transport must send.
type Delivery struct {
	To       ParticipantID
	Text     string
	Keyboard Keyboard
	Buttons  [][]Button
}
