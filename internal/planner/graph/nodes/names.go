package nodes

// Graph node keys.
const (
	NodeInputCity          = "InputCity"
	NodeInputInterests     = "InputInterests"
	NodeInputDetails       = "InputDetails"
	NodeInstruction        = "InstructionRenderer"
	NodeItineraryChatModel = "ItineraryChatModel"
	NodeFinalizer          = "Finalizer"
)
