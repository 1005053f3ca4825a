package messages

// Publish messages for target resolution, credentials, and the publishing strategies.
const (
	// PublishTargetNoHostFmt is raised for targets that cannot be addressed.
	PublishTargetNoHostFmt      = "Publishing target does not have a host name: %s"
	PublishInvalidMethodFmt     = "Server %q is not configured for a valid publishing method"
	PublishUnknownServerFmt     = "Server %q is not configured"
	PublishServerDisabledFmt    = "Server %q is disabled"
	PublishNoDefaultServer      = "no server given and no server is marked as default"
	PublishTargetInvalidFmt     = "Publishing target %q is not a valid URL: %v"
	PublishOutputMissingFmt     = "output directory %s does not exist; build the site first"
	PublishOutputNotDirFmt      = "output path %s is not a directory"
	PublishExecutableMissingFmt = "%s executable not found; cannot deploy"
	PublishStepFailedFmt        = "%s failed: %v"
	PublishEnvRequired          = "publish environment is required"
	PublishHostInvalidFmt       = "Publishing target host %q is not valid"
	PublishBranchInvalidFmt     = "branch %q is not a valid branch name"
	PublishSSHDirRequired       = "an inline ssh key needs a directory to be written to"

	CredentialUsernameInvalidFmt = "username %q must not start with '-' or contain '@', ':', '/' or whitespace"
	CredentialKeyAndKeyFile      = "use either a key file or an inline key, not both"
	CredentialKeyFileMissingFmt  = "key file %s: %v"
	CredentialKeyInvalidFmt      = "ssh key is not a valid private key: %v"
	CredentialKeyTypeInvalidFmt  = "ssh key type %q is not valid"
	CredentialErrorFmt           = "invalid credentials: %s"

	// Step names reported in PublishError.
	StepSSHKey      = "ssh key setup"
	StepSSHDir      = "ssh context setup"
	StepRsync       = "rsync"
	StepLock        = "working clone lock"
	StepInit        = "git init"
	StepGitConfig   = "git remote configuration"
	StepFetch       = "git fetch"
	StepCheckout    = "git checkout"
	StepSync        = "content synchronization"
	StepCNAME       = "CNAME update"
	StepAdd         = "git add"
	StepDiff        = "git diff"
	StepCommit      = "git commit"
	StepPush        = "git push"
	StepOpenClone   = "working clone inspection"
	StepPrepareRoot = "working clone directory"

	GhpagesCreatingBranchFmt = "Creating new branch %s"
	GhpagesUsingBranchFmt    = "Updating branch %s from origin"
	GhpagesSynchronizing     = "Synchronizing build"
	GhpagesNothingToCommit   = "No changes to deploy; skipping commit"
	GhpagesNothingToPush     = "Nothing has been committed yet; skipping push"
	GhpagesInitClone         = "Initializing working clone"
	GhpagesDeployedFmt       = "Deployed commit %s to %s"
	GhpagesDefaultCommitMsg  = "Synchronized build"
)
