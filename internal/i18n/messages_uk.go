package i18n

// ukrainianMessages contains all Ukrainian translations.
var ukrainianMessages = map[string]string{
	// Greeting
	"greeting": "Привіт, %s! 👋\nНадішли посилання на трек або альбом Spotify.",

	// Status message lifecycle
	"status.searching_track":  "🔍 Шукаю інформацію про трек...",
	"status.searching_album":  "🔍 Шукаю інформацію про альбом...",
	"status.downloading":      "🎵 %s\n⬇️ Завантажую...",
	"status.downloading_item": "🎵 [%d/%d] %s\n⬇️ Завантажую...",
	"status.uploading":        "uploading... 🚀",

	// Captions
	"caption.cover": "💿 Обкладинка: %s",
	"caption.audio": "🎧 %s",

	// Errors
	"error.metadata":     "❌ Не вдалося отримати дані з Spotify.",
	"error.audio":        "❌ Не вдалося завантажити аудіо.",
	"error.generic":      "❌ Помилка: щось пішло не так. Спробуй ще раз.",
	"error.flood":        "⏳ Забагато запитів. Зачекай хвилину і спробуй ще раз.",
	"error.unsupported":  "🤷 Поки що я вмію працювати лише з посиланнями на треки та альбоми.",
	"error.invalid_link": "❌ Це не схоже на посилання Spotify.",

	// Album batch summary
	"batch.summary": "✅ Альбом готовий: доставлено %d з %d треків.",
}
