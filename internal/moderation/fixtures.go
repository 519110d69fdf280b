package moderation

// Fixtures returns the datasets the dashboard starts with.
// Each call returns fresh slices.
func Fixtures() Snapshot {
	return Snapshot{
		Users: []User{
			{ID: 1, Name: "김철수", Email: "chulsu@example.com", Role: RoleMember, Status: UserStatusActive},
			{ID: 2, Name: "이영희", Email: "yhlee@example.com", Role: RoleCompany, Status: UserStatusSuspended},
			{ID: 3, Name: "박민지", Email: "minji@example.com", Role: RoleMember, Status: UserStatusActive},
			{ID: 4, Name: "최강희", Email: "khchoi@example.com", Role: RoleAdmin, Status: UserStatusActive},
			{ID: 5, Name: "홍길동", Email: "gdhong@example.com", Role: RoleMember, Status: UserStatusDormant},
		},
		Reports: []Report{
			// community
			{ID: 1, Category: CategoryCommunityAbuse, Type: "댓글", TargetID: 503, Reason: "광고/홍보", Reporter: "사용자A", Date: "2025-09-01", Status: ReportStatusReceived},
			{ID: 3, Category: CategoryCommunityAbuse, Type: ReportTypeUser, TargetID: 2, Reason: "욕설/비방", Reporter: "사용자B", Date: "2025-09-03", Status: ReportStatusDone},
			// illegal dumping
			{ID: 2, Category: CategoryIllegalDumping, Type: "게시글", TargetID: 101, Reason: "불법 투기 장소", Reporter: "익명", Date: "2025-09-02", Status: ReportStatusInProgress},
			{ID: 4, Category: CategoryIllegalDumping, Type: "직접 신고", TargetID: 200, Reason: "음식물 쓰레기 방치", Reporter: "주민C", Date: "2025-09-04", Status: ReportStatusReceived},
		},
		Companies: []Company{
			{ID: 10, RegistrationNumber: "123-45-67890", Name: "그린 청소 대행", Owner: "박대표", Phone: "010-1234-5678", Area: "강남구", License: LicenseNormal, Status: CompanyStatusActive},
			{ID: 11, RegistrationNumber: "987-65-43210", Name: "신속 폐기물 처리", Owner: "최사장", Phone: "010-9876-5432", Area: "송파구", License: "만료 예정", Status: CompanyStatusAttention},
		},
		Posts: []Post{
			{
				ID: 101, Title: "우리 동네 불법 투기 해결!", Author: "김철수", Date: "2025-07-20", CommentsCount: 5, Status: PostStatusPublic,
				Content: "우리 동네 길거리와 공원에 불법 투기가 너무 심해서 미관을 해치고 있습니다. 빠른 조치 부탁드립니다.",
			},
			{
				ID: 102, Title: "분리수거 꿀팁 공유합니다.", Author: "박민지", Date: "2025-07-19", CommentsCount: 12, Status: PostStatusPublic,
				Content: "투명 페트병은 라벨을 제거하고 압축해서 버리면 부피를 훨씬 줄일 수 있어요! 모두 실천해봐요.",
			},
			{
				ID: 103, Title: "새로운 신고 정책 문의", Author: "관리자A", Date: "2025-07-18", CommentsCount: 0, Status: PostStatusPrivate,
				Content: "최근 개정된 쓰레기 무단투기 신고 정책에 대해 자세한 설명을 부탁드립니다. 포상금 지급 기준이 궁금합니다.",
			},
			{
				ID: 104, Title: "폐기물 처리 절차 변경 안내", Author: "최강희", Date: "2025-07-17", CommentsCount: 2, Status: PostStatusPublic,
				Content: "대형 폐기물 처리 절차가 8월 1일부터 온라인 신고제로 변경됩니다. 기존의 스티커 구매 방식은 폐지되오니 유의해 주십시오.",
			},
		},
		Comments: []Comment{
			{ID: 501, Content: "좋은 정보 감사합니다!", PostID: 101, Author: "이영희", Date: "2025-07-21", Status: CommentStatusActive},
			{ID: 502, Content: "여기도 쓰레기가 많아요.", PostID: 101, Author: "관리자A", Date: "2025-07-21", Status: CommentStatusActive},
			{ID: 503, Content: "광고 댓글입니다. 삭제 필요.", PostID: 102, Author: "스팸맨", Date: "2025-07-20", Status: CommentStatusFlagged},
			{ID: 504, Content: "해당 내용을 확인 후 조치하겠습니다.", PostID: 103, Author: "박민지", Date: "2025-07-18", Status: CommentStatusActive},
			{ID: 505, Content: "저도 그 정책 궁금합니다.", PostID: 104, Author: "김철수", Date: "2025-07-17", Status: CommentStatusActive},
			{ID: 506, Content: "스티커 사라지니 좋네요.", PostID: 104, Author: "홍길동", Date: "2025-07-17", Status: CommentStatusActive},
		},
	}
}
