package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Greeting
	"greeting": "Hi, %s! 👋\nSend me a Spotify track or album link.",

	// Status message lifecycle
	"status.searching_track":  "🔍 Looking up track info...",
	"status.searching_album":  "🔍 Looking up album info...",
	"status.downloading":      "🎵 %s\n⬇️ Downloading...",
	"status.downloading_item": "🎵 [%d/%d] %s\n⬇️ Downloading...",
	"status.uploading":        "uploading... 🚀",

	// Captions
	"caption.cover": "💿 Cover: %s",
	"caption.audio": "🎧 %s",

	// Errors
	"error.metadata":     "❌ Couldn't get data from Spotify.",
	"error.audio":        "❌ Couldn't download the audio.",
	"error.generic":      "❌ Error: something went wrong. Please try again.",
	"error.flood":        "⏳ Too many requests. Please wait a minute and try again.",
	"error.unsupported":  "🤷 I can only handle track and album links for now.",
	"error.invalid_link": "❌ That doesn't look like a Spotify link.",

	// Album batch summary
	"batch.summary": "✅ Album done: %d of %d tracks delivered.",
}
