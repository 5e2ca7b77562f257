package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// NotificationJob is the JSON payload put on the RabbitMQ queue when someone
// engages with a post. The worker renders and emails it to the post author.
type NotificationJob struct {
	To        string `json:"to"`        // recipient email
	Recipient string `json:"recipient"` // recipient display name
	Actor     string `json:"actor"`     // display name of the liking/commenting user
	Kind      string `json:"kind"`      // "like" or "comment"
	PostID    string `json:"post_id"`
	Excerpt   string `json:"excerpt,omitempty"` // comment text, for comment notifications
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hi {{.Recipient}},</p>
  {{if eq .Kind "comment"}}
  <p><strong>{{.Actor}}</strong> commented on your post:</p>
  <blockquote style="border-left: 3px solid #ccc; padding-left: 8px;">{{.Excerpt}}</blockquote>
  {{else}}
  <p><strong>{{.Actor}}</strong> liked your post.</p>
  {{end}}
  <p>— feedline</p>
</body>
</html>`))

// Subject returns the email subject line for the job.
func (j *NotificationJob) Subject() string {
	if j.Kind == "comment" {
		return fmt.Sprintf("%s commented on your post", j.Actor)
	}
	return fmt.Sprintf("%s liked your post", j.Actor)
}

// Text returns the plain-text body used as HTML fallback.
func (j *NotificationJob) Text() string {
	if j.Kind == "comment" {
		return fmt.Sprintf("%s commented on your post: %s", j.Actor, j.Excerpt)
	}
	return fmt.Sprintf("%s liked your post.", j.Actor)
}

// RenderHTML renders the notification email body.
func (j *NotificationJob) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, j); err != nil {
		return "", err
	}
	return buf.String(), nil
}
