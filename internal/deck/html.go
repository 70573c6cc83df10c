package deck

import (
	"encoding/base64"
	"html"
	"strings"

	"github.com/snikulin87-hue/pres-entation/internal/presenter"
)

// PageHTML writes a self-contained page: one figure per mounted chart, each with
// the image inlined and a table of the tooltip texts underneath.
func PageHTML(title string, pg *presenter.Page) string {
	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>")
	sb.WriteString(`<style>
body{font-family:Inter,Arial,sans-serif;background:#F8FAFC;color:#0F172A;margin:24px}
figure{background:#fff;border-radius:12px;padding:16px;margin:0 0 24px;box-shadow:0 1px 3px rgba(15,23,42,.1)}
figure img{max-width:100%}
table{border-collapse:collapse;font-size:12px;margin-top:8px}
th,td{border:1px solid #E2E8F0;padding:4px 8px;text-align:right;white-space:nowrap}
th:first-child,td:first-child{text-align:left}
td.gap{color:#94A3B8}
</style>`)
	sb.WriteString("</head><body>")
	sb.WriteString("<h2>" + html.EscapeString(title) + "</h2>")

	for _, c := range pg.Charts() {
		d := c.Description
		sb.WriteString("<figure id='" + html.EscapeString(c.Mount) + "'>")
		sb.WriteString("<img alt='" + html.EscapeString(d.Title) + "' src='data:" + c.Format.ContentType() + ";base64," +
			base64.StdEncoding.EncodeToString(c.Image) + "'/>")
		sb.WriteString("<figcaption><table><thead><tr><th></th>")
		for _, l := range d.Labels {
			sb.WriteString("<th>" + html.EscapeString(l) + "</th>")
		}
		sb.WriteString("</tr></thead><tbody>")
		for i, s := range d.Series {
			sb.WriteString("<tr><td>" + html.EscapeString(s.Name) + "</td>")
			for j := range d.Labels {
				if j >= len(s.Values) || !s.Values[j].Present {
					sb.WriteString("<td class='gap'>" + absent + "</td>")
					continue
				}
				tip := d.Tooltip(i, j)
				value := strings.TrimPrefix(tip, s.Name+": ")
				sb.WriteString("<td title='" + html.EscapeString(tip) + "'>" + html.EscapeString(value) + "</td>")
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</tbody></table></figcaption></figure>")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
