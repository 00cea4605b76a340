package internal

import "time"

const SysLogMessageType = "sysLogMessage"

type SysLogMessage struct {
	Time       string    `json:"time" bson:"time"`
	TimeStamp  time.Time `json:"timestamp" bson:"timestamp"`
	Feature    string    `json:"feature" bson:"feature"`
	UserId     string    `json:"id" bson:"user_id"`
	Text       string    `json:"text" bson:"text"`
	Importance string    `json:"importance" bson:"importance"`
}

func (sm *SysLogMessage) DataType() string {
	return SysLogMessageType
}
