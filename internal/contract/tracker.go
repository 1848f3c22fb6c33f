package contract

import "github.com/alexanderramin/folio/internal/app"

type TickRequest = app.TickRequest

type TickFailure = app.TickFailure

type TickResponse = app.TickResponse
