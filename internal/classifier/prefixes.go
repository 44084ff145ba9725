package classifier

// systemPrefixes are line starts the engine uses for its own diagnostics.
// Several of them look like "Word: value", which the chat grammar alone
// would accept.
var systemPrefixes = []string{
	"Host_",
	"Update",
	"Unable",
	"Changing",
	"CAsync",
	"NET_",
	"L ",
	"String",
	"Signal",
	"SignalXWriteOpportunity",
	"String Table",
	"Map:",
	"Server:",
	"Server using",
	"Build:",
	"Players:",
	"Commentary:",
	"VSCRIPT:",
	"SCRIPT",
	"HSCRIPT",
	"Anniversary",
	"Steam:",
	"Steamgroup:",
	"Network:",
	"RememberIPAddressForLobby:",
	"CBaseClientState",
	"CSteam3Client",
	"CSteam3",
	"CSpeechScriptBridge",
	"ConVarRef",
	"Welcome",
	"#Cstrike",
	"BinkOpen",
	"Bink",
	"Couldn't find",
	"Couldn't",
	"Invalid",
	"Executing",
	"Initializing",
	"Initiating",
	"Running",
	"Loading",
	"Sending",
	"Connected",
	"Connecting",
	"Receiving",
	"Dropped",
	"Redownloading",
	"VAC",
	"NextBot",
	"prop_door_rotating",
	"prop_",
	"Duplicate sequence",
	"Opened",
	"No pure server",
	"Left 4 Dead",
	"Director",
	"S_StartSound",
}

// SystemPrefixes returns a copy of the built-in system prefix list.
func SystemPrefixes() []string {
	out := make([]string, len(systemPrefixes))
	copy(out, systemPrefixes)
	return out
}
