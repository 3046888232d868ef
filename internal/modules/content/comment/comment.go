// Package comment lets signed-in readers discuss posts.
//
// Files in this package:
//   - types.go: form, sentinel errors
//   - service.go: ownership-checked CRUD on comments
//   - handler.go: route registration and HTTP handlers
package comment
