package notify

import "context"

const (
	audienceAll          = "all"
	audienceParticipants = "participants"
	audienceChannel      = "channel"
	audienceAdmins       = "admins"
)

// Audience names a recipient set: every known user, the participants of
// one tournament, the public channel, or the admin list.
type Audience struct {
	kind         string
	tournamentID int64
}

func AllUsers() Audience { return Audience{kind: audienceAll} }

func Participants(id int64) Audience {
	return Audience{kind: audienceParticipants, tournamentID: id}
}

func Channel() Audience { return Audience{kind: audienceChannel} }

func Admins() Audience { return Audience{kind: audienceAdmins} }

type Message struct {
	Text     string
	ImageRef string
}

// Sender delivers one message to one recipient. Implementations belong to
// the messaging transport.
type Sender interface {
	Send(ctx context.Context, recipient int64, msg Message) error
}
