package intake

import (
	"fmt"

	"github.com/getmsert/logmailer/internal/mailer"
)

// LogContentType is the content type given to every forwarded log.
const LogContentType = "text/plain"

// Request is a parsed scan log upload.
type Request struct {
	Upload            Upload
	SanitizedFilename string
	ComputerName      string
}

// Parse sanitizes the upload's filename and derives the computer name from
// it. The original filename is kept untouched on the returned Upload.
func Parse(u Upload) (*Request, error) {
	sanitized := SecureFilename(u.Filename)

	name, err := ComputerName(sanitized)
	if err != nil {
		return nil, err
	}

	return &Request{
		Upload:            u,
		SanitizedFilename: sanitized,
		ComputerName:      name,
	}, nil
}

func (r *Request) Subject() string {
	return fmt.Sprintf("Microsoft Safety Scanner log from %s", r.ComputerName)
}

func (r *Request) Body() string {
	return fmt.Sprintf("Please see the attached %s.", r.Subject())
}

// Message builds the email forwarding the log to recipients. The attachment
// carries the original filename and the uploaded bytes as received.
func (r *Request) Message(from string, recipients []string) mailer.Message {
	to := make([]string, len(recipients))
	copy(to, recipients)

	return mailer.Message{
		From:    from,
		To:      to,
		Subject: r.Subject(),
		Body:    r.Body(),
		Attachments: []mailer.Attachment{{
			Filename:    r.Upload.Filename,
			ContentType: LogContentType,
			Data:        r.Upload.Data,
		}},
	}
}
