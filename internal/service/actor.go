package service

// ResolveActor merges an explicit request-supplied user id with the
// session identity into the effective actor. The explicit value wins
// when present; ok is false when neither is set (an anonymous caller).
//
// Read paths treat !ok as "no data" and return empty lists. Mutations
// never consult the explicit id: they pass "" and rely on the session
// alone, so a caller cannot write on behalf of an asserted identity.
func ResolveActor(explicit, session string) (actor string, ok bool) {
	if explicit != "" {
		return explicit, true
	}
	if session != "" {
		return session, true
	}
	return "", false
}
