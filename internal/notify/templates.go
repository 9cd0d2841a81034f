package notify

import (
	"bytes"
	"html/template"
	"time"
)

// ReminderData feeds the insurance expiry reminder template.
type ReminderData struct {
	PolicyNumber    string
	Provider        string
	TrailerID       string
	ExpiryDate      time.Time
	DaysUntilExpiry int
}

var reminderTemplate = template.Must(template.New("reminder").Parse(`<p>Insurance policy <strong>{{.PolicyNumber}}</strong> from {{.Provider}}
{{if lt .DaysUntilExpiry 0}}expired on{{else}}expires on{{end}} {{.ExpiryDate.Format "2006-01-02"}}.</p>
<p>Trailer: {{.TrailerID}}</p>
{{if ge .DaysUntilExpiry 0}}<p>{{.DaysUntilExpiry}} day(s) remaining.</p>{{end}}`))

// ReminderEmail renders the expiry reminder for the given recipients.
func ReminderEmail(to []string, data ReminderData) (Email, error) {
	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return Email{}, err
	}
	subject := "Insurance policy " + data.PolicyNumber + " expiring"
	if data.DaysUntilExpiry < 0 {
		subject = "Insurance policy " + data.PolicyNumber + " expired"
	}
	return Email{To: to, Subject: subject, HTML: buf.String()}, nil
}
