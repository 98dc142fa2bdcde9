package speech

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildSSML renders the request as the SSML document the speech service
// expects. The prosody rate is derived from the speed multiplier, leading and
// trailing silences are pinned to exact millisecond values, and the prompt
// text is wrapped in an express-as element unless the style is Default.
func BuildSSML(req Request) string {
	lang := strings.TrimSpace(req.Language)
	style := strings.TrimSpace(req.Style)
	styleOpen, styleClose := "", ""
	if style != "" && !strings.EqualFold(style, "default") {
		styleOpen = fmt.Sprintf("<mstts:express-as style='%s' styledegree='2'>", strings.ToLower(style))
		styleClose = "</mstts:express-as>"
	}

	return "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' " +
		"xmlns:mstts='https://www.w3.org/2001/mstts' " +
		"xml:lang='" + lang + "'>" +
		"<voice name='" + req.Voice + "'>" +
		styleOpen +
		"<lang xml:lang='" + lang + "'>" +
		"<prosody rate='" + FormatRate(req.RateMultiplier) + "'>" +
		"<mstts:silence type='Leading-exact' value='" + strconv.Itoa(req.LeadingSilenceMS) + "ms'/>" +
		escapeText(req.Text) +
		"<mstts:silence type='Trailing-exact' value='" + strconv.Itoa(req.TrailingSilenceMS) + "ms'/>" +
		"</prosody>" +
		"</lang>" +
		styleClose +
		"</voice>" +
		"</speak>"
}

// FormatRate converts a speed multiplier into the prosody rate attribute:
// 1.25 becomes "+25.00%", 0.85 becomes "-15.00%".
func FormatRate(multiplier float64) string {
	return fmt.Sprintf("%+.2f%%", (multiplier-1.0)*100.0)
}

func escapeText(value string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	).Replace(value)
}
