package game

// Director plays the game on the player's behalf
type Director interface {
	/**
	 * Prepare for a freshly generated maze. Called at the start of every attempt.
	 */
	Init(*Engine)

	/**
	 * Perform a single move
	 */
	Act()

	/**
	 * The attempt is over; stop acting until the next Init
	 */
	End()
}
