package messages

// Doctor messages for the project health report.
const (
	DoctorUse   = "doctor"
	DoctorShort = "Check the project config, servers, and deploy tools"

	DoctorHealthCheckFmt = "Checking sitepub project in %s\n"
	DoctorResultLineFmt  = "%s %-12s %s\n"

	DoctorStatusOKLabel   = "[OK]  "
	DoctorStatusWarnLabel = "[WARN]"
	DoctorStatusFailLabel = "[FAIL]"

	DoctorRecommendationPrefix = "       > "
	DoctorRecommendationIndent = "         "

	DoctorCheckNameStructure   = "Structure"
	DoctorCheckNameConfig      = "Config"
	DoctorCheckNameServers     = "Servers"
	DoctorCheckNameTools       = "Tools"
	DoctorCheckNameCredentials = "Credentials"

	DoctorMissingRequiredDirFmt       = "missing required directory %s"
	DoctorMissingRequiredDirRecommend = "Create .sitepub/config.toml with at least one [servers.<id>] table."
	DoctorPathNotDirFmt               = "%s exists but is not a directory"
	DoctorPathNotDirRecommend         = "Remove the file and create a .sitepub directory instead."
	DoctorMissingConfigFmt            = "missing config file %s"
	DoctorDirExistsFmt                = "%s directory found"

	DoctorConfigLoadFailedFmt = "failed to load config: %v"
	DoctorConfigLoadRecommend = "Check that .sitepub/config.toml is valid TOML and readable."
	DoctorConfigLoadedFmt     = "config loaded (%d servers)"

	DoctorNoServersRecommend = "Add a [servers.<id>] table with a target URL."
	DoctorNoDefaultRecommend = "Set default = true on one server to deploy without naming it."
	DoctorServerDisabledFmt  = "server %q is disabled"
	DoctorServerRecommendFmt = "Use a target URL with a host and one of the schemes: %s."
	DoctorServerOKFmt        = "server %q deploys to %s"

	DoctorToolFoundFmt     = "%s found at %s"
	DoctorToolRecommendFmt = "Install %s or set its path in the [publish] table."

	DoctorNoCredentials        = "no deploy credentials in the environment"
	DoctorCredentialsValid     = "deploy credentials from the environment are usable"
	DoctorCredentialsRecommend = "Fix the SITEPUB_DEPLOY_* variables in your environment or .sitepub/.env."

	DoctorFailureSummary = "Some checks failed."
	DoctorFailureError   = "doctor found problems"
	DoctorSuccessSummary = "All checks passed."
)
