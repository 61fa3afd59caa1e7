// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/service"
)

// Static messages.
const (
	msgChooseExam         = "Hangi sınava hazırlanıyorsun?"
	msgNoQuestions        = "Üzgünüm, şu anda mevcut bir soru yok."
	msgNotWaiting         = "Şu anda bir cevap beklemiyorum. Yeni bir quiz başlatmak için /soru yaz."
	msgUnknownCommand     = "Üzgünüm, bu komutu anlamadım."
	msgStaleQuestion      = "Şu anda bir soru yanıtlamıyorsun veya bu soru zaten yanıtlandı. Yeni bir quiz için /soru yaz."
	msgPickAtLeastOne     = "Lütfen en az bir seçenek belirle."
	msgStartingNewQuiz    = "Yeni quiz başlatılıyor..."
	msgFetchingWrong      = "Yanlış cevapların getiriliyor..."
	msgNoWrongAnswers     = "Henüz yanlış cevapladığın bir soru yok. Tebrikler!"
	msgWrongDetailMissing = "Üzgünüm, bu sorunun detayları bulunamadı."
	msgResetPrompt        = "Tüm quiz istatistiklerini sıfırlamak istediğinden emin misin? Bu işlem geri alınamaz."
	msgResetDone          = "İstatistiklerin başarıyla sıfırlandı! Yeni bir başlangıç için /soru yaz."
	msgResetCancelled     = "İşlem iptal edildi. İstatistiklerin güvende."
	msgFeedbackDisabled   = "Geri bildirim özelliği şu anda devre dışı."
	msgFeedbackUsage      = "Lütfen geri bildiriminizi komuttan sonra yazın, örn: /geri_bildirim Bu bot harika!"
	msgFeedbackThanks     = "Teşekkürler! Geri bildirimin gönderildi."
	msgFeedbackFailed     = "Üzgünüm, geri bildirimin gönderilirken bir hata oluştu."
	msgInternalError      = "Bir şeyler ters gitti. Lütfen tekrar dene."
)

// Button labels.
const (
	btnMidterm       = "Ara Sınav"
	btnFinal         = "Final"
	btnSubmit        = "Cevabı Onayla"
	btnNewQuiz       = "Yeni Quiz Başlat"
	btnReviewWrong   = "Yanlışlarımı İncele"
	btnBackToWrong   = "Yanlışlarıma Geri Dön"
	btnConfirmReset  = "Evet, İstatistiklerimi Sıfırla"
	btnCancelReset   = "Hayır, İptal Et"
	btnInspectFormat = "Soruyu İncele %d"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func code(s string) string {
	return "`" + md(s) + "`"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func formatWelcome(firstName string) string {
	name := firstName
	if name == "" {
		name = "sanatsever"
	}
	return md(fmt.Sprintf("Sanat Tarihi dersine hoş geldin, %s! ", name)) +
		md("Başlamaya hazır olduğunda ") + md("/soru") + md(" komutunu gönder.")
}

// formatQuestion renders the question header, prompt and the current
// selection line.
func formatQuestion(view service.QuestionView) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Soru %d/%d:", view.Number, view.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(view.Text))
	sb.WriteString("\n\n")

	selected := strings.Join(view.Selected, ", ")
	if selected == "" {
		selected = "Hiçbiri"
	}
	sb.WriteString(md("Seçilen: "))
	sb.WriteString(bold(selected))

	return sb.String()
}

// formatVerdict renders the scored-answer response that replaces the
// question message.
func formatVerdict(verdict service.AnswerVerdict) string {
	var sb strings.Builder

	sb.WriteString(bold("Soru:"))
	sb.WriteString(" ")
	sb.WriteString(md(verdict.QuestionText))
	sb.WriteString("\n\n")

	if verdict.IsCorrect {
		sb.WriteString(md("Doğru! 🎉"))
	} else {
		sb.WriteString(md("Yanlış. Doğru cevap: "))
		sb.WriteString(bold(strings.Join(verdict.CorrectAnswers, ", ")))
	}

	if verdict.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(md("Açıklama:"))
		sb.WriteString("\n")
		sb.WriteString(md(verdict.Explanation))
	}

	return sb.String()
}

func formatSummary(summary service.SessionSummary) string {
	var sb strings.Builder

	sb.WriteString(bold("Quiz Tamamlandı! 🎉"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Cevaplanan Soru: "))
	sb.WriteString(bold(fmt.Sprintf("%d", summary.Answered)))
	sb.WriteString("\n")
	sb.WriteString(md("✅ Doğru: "))
	sb.WriteString(bold(fmt.Sprintf("%d", summary.Correct)))
	sb.WriteString("\n")
	sb.WriteString(md("❌ Yanlış: "))
	sb.WriteString(bold(fmt.Sprintf("%d", summary.Wrong)))
	sb.WriteString("\n")
	sb.WriteString(md("🎯 Başarı Oranı: "))
	sb.WriteString(bold(fmt.Sprintf("%.2f%%", summary.AccuracyPct)))
	sb.WriteString("\n")
	sb.WriteString(md("⏱️ Geçen Süre: "))
	sb.WriteString(bold(fmt.Sprintf("%d saniye", summary.DurationSeconds)))
	sb.WriteString("\n\n")
	sb.WriteString(md("Yeni bir quiz başlatmak veya yanlışlarını görmek için aşağıdaki butonları kullanabilirsin."))

	return sb.String()
}

func formatStatistics(stats service.Statistics) string {
	avgTime := "Mevcut Değil"
	if stats.AvgSeconds != nil {
		avgTime = fmt.Sprintf("%.2f saniye", *stats.AvgSeconds)
	}

	var sb strings.Builder
	sb.WriteString(bold("Quiz İstatistiklerin:"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Toplam Cevaplanan Soru: "))
	sb.WriteString(bold(fmt.Sprintf("%d", stats.Total)))
	sb.WriteString("\n")
	sb.WriteString(md("✅ Doğru Cevaplar: "))
	sb.WriteString(bold(fmt.Sprintf("%d", stats.Correct)))
	sb.WriteString("\n")
	sb.WriteString(md("❌ Yanlış Cevaplar: "))
	sb.WriteString(bold(fmt.Sprintf("%d", stats.Wrong)))
	sb.WriteString("\n")
	sb.WriteString(md("🎯 Başarı Oranı: "))
	sb.WriteString(bold(fmt.Sprintf("%.2f%%", stats.AccuracyPct)))
	sb.WriteString("\n")
	sb.WriteString(md("⏱️ Ortalama Cevap Süresi: "))
	sb.WriteString(bold(avgTime))
	sb.WriteString("\n")

	return sb.String()
}

func formatWrongList(summaries []service.WrongSummary) string {
	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("Son %d Yanlış Cevabın:", len(summaries))))
	sb.WriteString("\n\n")

	for i, w := range summaries {
		sb.WriteString(bold(fmt.Sprintf("%d. %s", i+1, w.Summary)))
		sb.WriteString("\n")
		sb.WriteString(md("  Senin cevabın: "))
		sb.WriteString(code(w.UserAnswer))
		sb.WriteString(md(", Doğru: "))
		sb.WriteString(code(w.CorrectAnswer))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatWrongDetail(detail *service.WrongDetail) string {
	answers := make([]string, 0, len(detail.UserAnswer))
	for _, a := range detail.UserAnswer {
		if a.Resolved {
			answers = append(answers, fmt.Sprintf("%s) %s", a.Label, a.Text))
		} else {
			answers = append(answers, a.Text)
		}
	}
	userAnswer := strings.Join(answers, ", ")
	if userAnswer == "" {
		userAnswer = "Bulunamadı"
	}

	var sb strings.Builder
	sb.WriteString(bold("Soru:"))
	sb.WriteString(" ")
	sb.WriteString(md(detail.Question.Text))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Senin Cevabın:"))
	sb.WriteString(" ")
	sb.WriteString(code(userAnswer))
	sb.WriteString("\n")
	sb.WriteString(bold("Doğru Cevap:"))
	sb.WriteString(" ")
	sb.WriteString(bold(strings.Join(detail.Question.CorrectAnswers, ", ")))

	if detail.Question.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Açıklama:"))
		sb.WriteString("\n")
		sb.WriteString(md(detail.Question.Explanation))
	}

	return sb.String()
}

func formatLeaderboard(entries []service.LeaderboardEntry) string {
	var sb strings.Builder
	sb.WriteString(md("🏆 "))
	sb.WriteString(bold("Sanat Bilgini Lider Tablosu"))
	sb.WriteString(md(" 🏆"))
	sb.WriteString("\n\n")

	if len(entries) == 0 {
		sb.WriteString(md("Lider tablosu boş. İlk doğru cevabı veren sen ol!"))
		return sb.String()
	}

	for _, e := range entries {
		name := e.Username
		if name == "" {
			name = "anonim"
		}
		sb.WriteString(md(fmt.Sprintf("%d. @%s - ", e.Rank, name)))
		sb.WriteString(bold(fmt.Sprintf("%d", e.Correct)))
		sb.WriteString(md(fmt.Sprintf(" doğru cevap (%d toplam)", e.Total)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFeedback(userID int64, username, text string) string {
	var sb strings.Builder
	sb.WriteString(bold("Yeni Geri Bildirim:"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Gönderen: @%s (ID: %d)", username, userID)))
	sb.WriteString("\n\n")
	sb.WriteString(md("Mesaj:"))
	sb.WriteString("\n_")
	sb.WriteString(md(text))
	sb.WriteString("_")
	return sb.String()
}

// displayOption renders one option button label, checkmarked when the
// option letter is selected.
func displayOption(index int, text string, selected []string) string {
	letter := entities.OptionLetter(index)
	label := fmt.Sprintf("%s) %s", letter, text)
	for _, s := range selected {
		if s == letter {
			return "✅ " + label
		}
	}
	return label
}
