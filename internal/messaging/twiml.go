package messaging

import (
	"bytes"
	"encoding/xml"
)

const twimlEmpty = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// TwiML формирует ответ вебхука. Пустой reply -> пустой <Response/>.
func TwiML(reply string) string {
	if reply == "" {
		return twimlEmpty
	}
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Response><Message>`)
	_ = xml.EscapeText(&buf, []byte(reply))
	buf.WriteString(`</Message></Response>`)
	return buf.String()
}
