package chat

// DefaultName is the display name used when the name field is empty.
const DefaultName = "anon"

// Separator sits between the display name and the message text.
const Separator = ": "

// TriggerKey is the key name that sends the message input.
const TriggerKey = "enter"

// DisplayName resolves the name field to the name sent with a message.
// Only an empty field falls back; whitespace is kept as typed.
func DisplayName(field string) string {
	if field == "" {
		return DefaultName
	}
	return field
}

// Compose builds the outbound frame text for name and text.
func Compose(name, text string) string {
	return DisplayName(name) + Separator + text
}
