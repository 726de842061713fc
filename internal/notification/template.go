package notification

import (
	"bytes"
	"html/template"
)

// emailTmpl is the HTML wrapper used when HTML bodies are enabled.
// Every field is auto-escaped by html/template; the body keeps its line
// breaks through white-space:pre-wrap.
var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f3f4f6;
     font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation"
         style="background-color:#f3f4f6;padding:32px 16px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" role="presentation"
               style="max-width:600px;width:100%;">

          <!-- Header -->
          <tr>
            <td style="background-color:#065f46;padding:24px 36px;border-radius:10px 10px 0 0;">
              <span style="font-size:20px;font-weight:700;color:#ffffff;">{{.Site}}</span>
              <span style="display:block;font-size:11px;color:#a7f3d0;margin-top:2px;letter-spacing:0.3px;">
                Volunteer Shifts
              </span>
            </td>
          </tr>

          <!-- Subject -->
          <tr>
            <td style="background-color:#ecfdf5;padding:14px 36px;border-left:3px solid #10b981;">
              <p style="margin:0;font-size:15px;font-weight:600;color:#064e3b;">{{.Subject}}</p>
            </td>
          </tr>

          <!-- Body -->
          <tr>
            <td style="background-color:#ffffff;padding:32px 36px;">
              <div style="font-size:14px;line-height:1.7;color:#374151;
                          white-space:pre-wrap;word-break:break-word;">{{.Body}}</div>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="background-color:#f9fafb;padding:18px 36px;
                       border-top:1px solid #e5e7eb;border-radius:0 0 10px 10px;">
              <p style="margin:0;font-size:12px;color:#9ca3af;">
                This message was sent automatically by {{.Site}}. Please do not reply.
              </p>
            </td>
          </tr>

        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// buildEmailHTML renders the HTML wrapper for a plain-text body.
func buildEmailHTML(site, subject, body string) (string, error) {
	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, struct{ Site, Subject, Body string }{site, subject, body})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
