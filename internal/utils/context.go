// Package utils provides shared utility functions and constants
package utils

// ContextKeySession is the key used to store the visitor session in the echo context
const ContextKeySession = "session"

// CookieName is the name of the sealed session cookie
const CookieName = "JukeboxSession"

// ContextKeyCSRF is the key the CSRF middleware stores the request token under
const ContextKeyCSRF = "csrf"
