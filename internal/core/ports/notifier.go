package ports

// Notifier surfaces global toast notifications to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}
