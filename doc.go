// Package main provides the entry point for the GoContent-Admin backend.
// It runs the identity and access-control service of a web content
// management system: credential validation with captcha and lockout
// handling, bearer token issuance, and a role-based permission graph
// exposed through a Fiber JSON API backed by gorm.
package main
