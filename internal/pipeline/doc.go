// Package pipeline seeds the store. Seeding runs once, before the HTTP
// listener starts, and either replaces every relation or leaves the store
// untouched.
package pipeline
