package telegram

import "log"

func (b *Bot) SendMessageOrLogError(message string) {
	err := b.SendMessage(message)
	if err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) logSendError(err error) {
	log.Printf("❌ Ошибка отправки сообщения: %v", err)
}
