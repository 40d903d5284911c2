// Package reactions handles emoji reactions left on things by followers.
package reactions

// Emoji is one of the fixed reactions a follower can leave on a thing.
type Emoji struct {
	Code  string
	Emoji string
	Label string
}

// All is the full reaction palette, in display order.
var All = []Emoji{
	{Code: "heart", Emoji: "❤️", Label: "Love"},
	{Code: "laugh", Emoji: "\U0001f602", Label: "Haha"},
	{Code: "wow", Emoji: "\U0001f62e", Label: "Wow"},
	{Code: "sad", Emoji: "\U0001f622", Label: "Sad"},
	{Code: "pray", Emoji: "\U0001f64f", Label: "Pray"},
	{Code: "celebrate", Emoji: "\U0001f389", Label: "Celebrate"},
}

// EmojiByCode returns the emoji character for a palette code, or "".
func EmojiByCode(code string) string {
	for _, e := range All {
		if e.Code == code {
			return e.Emoji
		}
	}
	return ""
}

// CodeByEmoji maps an emoji character back to its palette code, or "".
func CodeByEmoji(emoji string) string {
	for _, e := range All {
		if e.Emoji == emoji {
			return e.Code
		}
	}
	return ""
}
