// package robot is a convenience client for the Misty II firmware's REST
// surface. The Client owns the HTTP session; the method groups (Images,
// Audio, Faces, Movement, System, Navigation, Skills) shape request payloads
// and call it. Event subscriptions live in the events package and are wired
// up here.
package robot

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/copilette/misty/internal/events"
)

// Robot groups the full client surface for one robot.
type Robot struct {
	Client *Client
	Events *events.Manager

	Images     *ImageAPI
	Audio      *AudioAPI
	Faces      *FaceAPI
	Movement   *MovementAPI
	System     *SystemAPI
	Navigation *NavigationAPI
	Skills     *SkillAPI
}

// New creates a Robot for the device at host. A nil client falls back to
// [http.DefaultClient] for both REST calls and the pubsub socket.
func New(host string, client *http.Client) *Robot {
	c := NewClient(host, client)
	ev := events.NewManager(c.PubSubEndpoint(), client)

	return &Robot{
		Client:     c,
		Events:     ev,
		Images:     &ImageAPI{c: c},
		Audio:      &AudioAPI{c: c, events: ev},
		Faces:      &FaceAPI{c: c, events: ev},
		Movement:   &MovementAPI{c: c},
		System:     &SystemAPI{c: c},
		Navigation: newNavigationAPI(c, ev),
		Skills:     &SkillAPI{c: c},
	}
}

// SetLogger points the client and event manager at the given logger.
func (r *Robot) SetLogger(l *log.Logger) {
	r.Client.SetLogger(l)
	r.Events.SetLogger(l)
}
