package mechshop

// Version is the published SDK version.
// 0.4.0: Route 401/403 on decoded calls through the shared auth-failure
// hook instead of per-caller checks.
// 0.3.0: Breaking - FetchProfile clears the whole session on failure, not
// just the profile; a token without a verifiable profile is untrustworthy.
// 0.2.0: Add inventory search and ticket mechanic assignment.
const Version = "0.4.0"
