package bot

// Canned replies
const (
	Prefix = "!"

	MsgGreeting       = "Hello, I am a bot! Try sending '!help'"
	MsgUnknownCommand = "Unknown command! Try '!help'"
	MsgInternalError  = "Something went wrong running that command."
	MsgHelpHeader     = "Available commands:"
	MsgHelpFooter     = "Note: Messages starting with two exclamation (!!) are ignored."

	MsgPong = "Pong!"

	MsgWhoami        = "You are %s."
	MsgWhoamiUnknown = "You are an unknown user. Use '!register [name]' to register."

	MsgAlreadyRegistered = "You are already registered as %s."
	MsgRegisterUsage     = "Missing name parameter: '!register [name]'"
	MsgRegistered        = "You are now %s."

	MsgMkadminUsage   = "Missing number parameter: '!mkadmin [number]'"
	MsgSuccess        = "Success!"
	MsgNotRegistered  = "User not registered!"
	MsgPromotedNotice = "Congrats! You now have access to admin commands. See '!help' for more info."

	MsgRestricted = "Restricted command :P"
	MsgShUsage    = "Missing command parameter: '!sh [command]'"
	MsgNoOutput   = "(no output)"

	MsgNoUsers = "No registered users."

	MsgMsgUsage = "Usage: '!msg [number] [text...]'"
	MsgRelay    = "Sent on behalf of %s (%s):\n====================================\n%s"

	MsgWordleHeader       = "%s's Wordle:\n"
	MsgWordleUnknownName  = "unknown"
	MsgGuessListPrivate   = "Guess list is only available in direct messages."
	MsgNoGuesses          = "No guesses yet today."
	MsgInvalidLength      = "Guesses must be 5 letters long."
	MsgNotInWordlist      = "Not in word list!"
	MsgPuzzleFinished     = "You have already finished today's Wordle!"
	MsgWordleGuessListArg = "-g"
)
