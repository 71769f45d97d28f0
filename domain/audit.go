package domain

type ListAuditLogsFilter struct {
	Actions []string `mapstructure:"actions" validate:"omitempty,min=1"`
	Actor   string   `mapstructure:"actor" validate:"omitempty"`
	Size    int      `mapstructure:"size" validate:"omitempty"`
}
