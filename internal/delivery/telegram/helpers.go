package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

const userIDPrefix = "tg-"

// identityFor maps a Telegram user onto a signed-in identity.
func identityFor(telegramID int64) entities.Identity {
	return entities.SignedInAs(userIDPrefix + strconv.FormatInt(telegramID, 10))
}

// telegramUserID reverses identityFor. Users of other deliveries report false.
func telegramUserID(userID string) (int64, bool) {
	rest, ok := strings.CutPrefix(userID, userIDPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}
