// Package services declares the application's static service graph and
// registers it with the container.
//
// Each service embeds *service.BaseService and supplies only its own
// DoInitialize, DoCleanup, and DefaultConfig. The graph itself (names,
// dependencies, tags) lives in a single table; RegistrationOrder derives
// the dependency-respecting order from it and ValidateConfiguration checks
// factories, dependencies, and acyclicity before anything is registered.
//
// Business logic here is deliberately thin. Alarm scheduling, battles,
// voice playback, and subscription verification are stand-ins for the
// real platform features; what matters to this module is their lifecycle,
// dependencies, and failure behavior.
package services
