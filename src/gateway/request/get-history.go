package request

type GetHistory struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type ListDevices struct {
	Category string `form:"category"`
}
