package email

import (
	"bytes"
	"fmt"
	"html/template"

	"trendletter/internal/core"
)

// newsletterTemplate renders the issue as a self-contained HTML email:
// header with title and subtitle, one card per article, footer.
var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Newsletter.Title}}</title>
</head>
<body style="margin:0; padding:0; background-color:#f8fafc; font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif;">
<div style="max-width:600px; margin:0 auto; padding:24px 16px;">
  <div style="background:linear-gradient(135deg, #6366F1, #8B5CF6); border-radius:12px 12px 0 0; padding:32px 24px; text-align:center;">
    <h1 style="margin:0; color:#ffffff; font-size:24px;">{{.Newsletter.Title}}</h1>
    {{if .Newsletter.Subtitle}}<p style="margin:8px 0 0; color:#e0e7ff; font-size:14px;">{{.Newsletter.Subtitle}}</p>{{end}}
  </div>
  <div style="background-color:#ffffff; padding:8px 0;">
    <p style="padding:0 24px; color:#475569; font-size:15px;">Hi {{.RecipientName}}, here are this week's cultural highlights picked for you.</p>
    {{range .Newsletter.Articles}}
    <div style="margin:16px 24px; border:1px solid #e2e8f0; border-radius:8px; overflow:hidden;">
      {{if .ImageRef}}<img src="{{.ImageRef}}" alt="{{.Category}}" width="100%" style="display:block; max-height:220px; object-fit:cover;">{{end}}
      <div style="padding:16px 20px;">
        <div style="margin-bottom:8px;">
          <span style="display:inline-block; background-color:#eef2ff; color:#4f46e5; font-size:11px; font-weight:600; padding:3px 10px; border-radius:10px; text-transform:uppercase;">{{.Category}}</span>
          {{if .Trending}}<span style="display:inline-block; background-color:#fef3c7; color:#b45309; font-size:11px; font-weight:600; padding:3px 10px; border-radius:10px; margin-left:6px;">Trending</span>{{end}}
          <span style="color:#94a3b8; font-size:12px; margin-left:8px;">{{.ReadTime}}</span>
        </div>
        <h2 style="margin:0 0 8px; color:#1e293b; font-size:19px;">{{.Title}}</h2>
        {{if .Excerpt}}<p style="margin:0 0 12px; color:#64748b; font-size:14px; font-style:italic;">{{.Excerpt}}</p>{{end}}
        <div style="color:#334155; font-size:14px; line-height:1.6; white-space:pre-line;">{{.Body}}</div>
        {{if .DemographicSummary}}<p style="margin:12px 0 0; color:#94a3b8; font-size:12px;">{{.DemographicSummary}}</p>{{end}}
        {{if .Tags}}<p style="margin:12px 0 0; color:#94a3b8; font-size:12px;">{{range $i, $t := .Tags}}{{if $i}} · {{end}}#{{$t}}{{end}}</p>{{end}}
      </div>
    </div>
    {{end}}
  </div>
  <div style="background-color:#1e293b; border-radius:0 0 12px 12px; padding:20px 24px; text-align:center;">
    <p style="margin:0; color:#94a3b8; font-size:12px;">You are receiving this because you subscribed to weekly trend updates.</p>
    <p style="margin:8px 0 0; color:#64748b; font-size:12px;">Week of {{.WeekLabel}}</p>
  </div>
</div>
</body>
</html>`))

type templateData struct {
	Newsletter    *core.Newsletter
	RecipientName string
	WeekLabel     string
}

// RenderNewsletterHTML renders the full email body for a newsletter. An
// empty recipient name falls back to a generic greeting.
func RenderNewsletterHTML(newsletter *core.Newsletter, recipientName string) (string, error) {
	if recipientName == "" {
		recipientName = "Newsletter Subscriber"
	}
	var buf bytes.Buffer
	err := newsletterTemplate.Execute(&buf, templateData{
		Newsletter:    newsletter,
		RecipientName: recipientName,
		WeekLabel:     newsletter.WeekOf.Format("January 2, 2006"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render newsletter email: %w", err)
	}
	return buf.String(), nil
}
