// Package http exposes the gallery booking engine as a JSON API on a chi router.
//
// Endpoints:
//   - GET /health: storage reachability.
//   - GET /paintings, POST /paintings: the painting catalog, exchanging the
//     `paintingDTO` payload defined in dto.go.
//   - GET /availability?start=YYYY-MM-DD&end=YYYY-MM-DD&exclude=ID&selected=a,b:
//     catalog paintings outside the selection, each flagged `busy` when another
//     exhibition holds it for an overlapping period.
//   - GET /exhibitions, POST /exhibitions, GET /exhibitions/{id},
//     PUT /exhibitions/{id}, DELETE /exhibitions/{id}: exhibitions with their
//     booked paintings. POST and PUT run one booking session per request and
//     answer 409 naming the painting when it is already booked elsewhere, 422
//     with per-field messages on validation failures and 500 with the storage
//     message when the write fails.
package http
