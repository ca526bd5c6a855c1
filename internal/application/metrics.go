package application

import (
	"expvar"

	"github.com/oksasatya/event-registration/pkg/apperror"
)

// Published under /debug/vars.
var (
	registrationsTotal  = expvar.NewInt("registrations_total")
	cancellationsTotal  = expvar.NewInt("cancellations_total")
	eventsCreatedTotal  = expvar.NewInt("events_created_total")
	registrationRejects = expvar.NewMap("registration_rejections")
)

func countRejection(err error) {
	registrationRejects.Add(string(apperror.KindOf(err)), 1)
}
