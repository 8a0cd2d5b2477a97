package recordpolicy

var public = Rule{Access: Public}

// Projects: index is open to everyone, the rest is staff only. Show hides
// other people's projects as not-found; update only needs a session but
// still requires ownership.
var Projects = Table{
	Index:   public,
	Show:    Rule{Access: AdminOrWorker, Owner: OwnerOnly, OnDenied: NotFound},
	Add:     Rule{Access: AdminOrWorker},
	Create:  Rule{Access: AdminOrWorker},
	Edit:    Rule{Access: AdminOrWorker, Owner: OwnerOnly, OnDenied: RedirectList},
	Update:  Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	Delete:  Rule{Access: Admin, Owner: OwnerOnly, OnDenied: RedirectList},
	ByOwner: Rule{Access: Admin},
	Search:  Rule{Access: AdminOrWorker},
	Mine:    Rule{Access: SignedIn},
}

// Investments can be created by any signed-in user and read by anyone.
var Investments = Table{
	Index:   public,
	Show:    public,
	Add:     Rule{Access: SignedIn},
	Create:  Rule{Access: SignedIn},
	Edit:    Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	Update:  Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	Delete:  Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	ByOwner: Rule{Access: Admin},
	Search:  public,
	Mine:    Rule{Access: Admin},
}

// Workers are admin records. Delete only needs a session but admins may
// delete any worker; edit has no admin bypass.
var Workers = Table{
	Index:   public,
	Show:    Rule{Access: Admin, Owner: OwnerOrAdmin, OnDenied: NotFound},
	Add:     Rule{Access: Admin},
	Create:  Rule{Access: Admin},
	Edit:    Rule{Access: Admin, Owner: OwnerOnly, OnDenied: RedirectList},
	Update:  Rule{Access: Admin, Owner: OwnerOnly, OnDenied: RedirectList},
	Delete:  Rule{Access: SignedIn, Owner: OwnerOrAdmin, OnDenied: RedirectList},
	ByOwner: Rule{Access: Admin},
	Search:  Rule{Access: Admin},
	Mine:    Rule{Access: Admin},
}

// News is written by staff and readable by any signed-in user.
var News = Table{
	Index:   public,
	Show:    Rule{Access: SignedIn},
	Add:     Rule{Access: AdminOrWorker},
	Create:  Rule{Access: AdminOrWorker},
	Edit:    Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	Update:  Rule{Access: SignedIn, Owner: OwnerOnly, OnDenied: RedirectList},
	Delete:  Rule{Access: SignedIn, Owner: OwnerOrAdmin, OnDenied: RedirectList},
	ByOwner: Rule{Access: Admin},
	Search:  Rule{Access: SignedIn},
	Mine:    Rule{Access: SignedIn},
}
