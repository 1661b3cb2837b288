package dnssd

// SessionID is the opaque, non-zero identifier of an active browse session.
// It is issued by Browse and valid until StopBrowse reclaims it; using a
// reclaimed identifier is a caller error the bridge does not defend against.
type SessionID uint64

// BrowseHandle is the opaque, non-zero token the backend correlates browse
// deliveries and cancellation on. Handles are minted per Browse call and are
// distinct from session identifiers.
type BrowseHandle uint64

// browseSession holds what the bridge retains per active browse: the result
// callback and the handle given to the backend. The caller context is not
// retained here; it crosses the backend boundary and comes back with each
// delivery.
type browseSession struct {
	callback BrowseCallback
	handle   BrowseHandle
}

// sessionRegistry tracks active browse sessions. It has no locking of its
// own; every access happens under the bridge lock.
type sessionRegistry struct {
	sessions   map[SessionID]*browseSession
	nextID     SessionID
	nextHandle BrowseHandle
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[SessionID]*browseSession)}
}

// create allocates a session for callback and returns its identifier.
// Identifiers and handles are both non-zero and never reused.
func (r *sessionRegistry) create(callback BrowseCallback) (SessionID, *browseSession) {
	r.nextID++
	r.nextHandle++
	sess := &browseSession{callback: callback, handle: r.nextHandle}
	r.sessions[r.nextID] = sess
	return r.nextID, sess
}

// reclaim removes and returns the session for id. The second return is false
// when id was never issued or has already been reclaimed.
func (r *sessionRegistry) reclaim(id SessionID) (*browseSession, bool) {
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return sess, ok
}

// byHandle finds the active session the backend is delivering for. A miss
// means the session ended before the delivery arrived.
func (r *sessionRegistry) byHandle(handle BrowseHandle) (*browseSession, bool) {
	for _, sess := range r.sessions {
		if sess.handle == handle {
			return sess, true
		}
	}
	return nil, false
}

// ids returns the identifiers of all active sessions, unordered.
func (r *sessionRegistry) ids() []SessionID {
	out := make([]SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}
